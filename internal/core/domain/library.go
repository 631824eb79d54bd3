package domain

// ProbeRequest asks the package registry for a library.
// SearchPaths, when set, are the only directories searched for package descriptions.
// Static asks for the flags of a fully static link, private dependencies included.
type ProbeRequest struct {
	Name        string
	MinVersion  string
	SearchPaths []string
	Static      bool
}

// LibraryInfo is a resolved probe result.
type LibraryInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	IncludePaths []string `json:"include_paths,omitempty"`
	LinkPaths    []string `json:"link_paths,omitempty"`
	Libs         []string `json:"libs,omitempty"`
	LinkArgs     []string `json:"link_args,omitempty"`
}
