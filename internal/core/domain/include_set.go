package domain

import "slices"

// IncludeSet is an ordered, append-only sequence of include directories.
// Duplicates are tolerated while appending; Dedupe keeps the first occurrence.
type IncludeSet struct {
	dirs []string
}

// Append adds dirs to the end of the set. Empty entries are dropped.
func (s *IncludeSet) Append(dirs ...string) {
	for _, d := range dirs {
		if d != "" {
			s.dirs = append(s.dirs, d)
		}
	}
}

// Dedupe removes exact duplicates, preserving first-seen order.
func (s *IncludeSet) Dedupe() {
	s.dirs = dedupe(s.dirs)
}

// Dirs returns a copy of the directories.
func (s *IncludeSet) Dirs() []string {
	return slices.Clone(s.dirs)
}

// Len returns the number of directories.
func (s *IncludeSet) Len() int {
	return len(s.dirs)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Dedupe returns the distinct entries of in, preserving first-seen order.
func Dedupe(in []string) []string {
	return dedupe(in)
}
