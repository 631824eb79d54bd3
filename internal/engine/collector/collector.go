// Package collector merges build outputs and probe results into the artifact
// set handed to the host build and the binding generator.
package collector

import "go.trai.ch/heifsys/internal/core/domain"

// IncludeSet returns the include dirs of outputs in order, de-duplicated.
func IncludeSet(outputs []domain.BuildOutput) *domain.IncludeSet {
	set := &domain.IncludeSet{}
	for _, out := range outputs {
		set.Append(out.IncludeDir())
	}
	set.Dedupe()
	return set
}

// Collect returns the include dirs of outputs followed by those of probe,
// and the link directives: one -L per output followed by the probe's static
// link flags. Both lists are de-duplicated, first occurrence wins.
// probe may be nil.
func Collect(outputs []domain.BuildOutput, probe *domain.LibraryInfo) domain.Artifacts {
	includes := &domain.IncludeSet{}
	var link []string

	for _, out := range outputs {
		includes.Append(out.IncludeDir())
		link = append(link, "-L"+out.LibDir())
	}

	if probe != nil {
		includes.Append(probe.IncludePaths...)
		link = append(link, linkArgs(probe)...)
	}
	includes.Dedupe()

	return domain.Artifacts{
		IncludeDirs: includes.Dirs(),
		LinkArgs:    domain.Dedupe(link),
		Outputs:     outputs,
		Library:     probe,
	}
}

func linkArgs(probe *domain.LibraryInfo) []string {
	if len(probe.LinkArgs) > 0 {
		return probe.LinkArgs
	}
	args := make([]string, 0, len(probe.LinkPaths)+len(probe.Libs))
	for _, p := range probe.LinkPaths {
		args = append(args, "-L"+p)
	}
	for _, l := range probe.Libs {
		args = append(args, "-l"+l)
	}
	return args
}

// AppendLinks adds the static link flags of further required libraries after
// those already collected.
func AppendLinks(a domain.Artifacts, libs ...*domain.LibraryInfo) domain.Artifacts {
	link := a.LinkArgs
	for _, lib := range libs {
		if lib != nil {
			link = append(link, linkArgs(lib)...)
		}
	}
	a.LinkArgs = domain.Dedupe(link)
	return a
}
