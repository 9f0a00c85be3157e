package watch

import (
	"path/filepath"
	"strings"
)

// DefaultExclude skips editor swap files and VCS metadata.
var DefaultExclude = []string{"*.swp", "*.swx", "*~", ".#*", "4913"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
}

// PatternFilter filters file paths based on include/exclude glob patterns.
type PatternFilter struct {
	Include []string
	Exclude []string
}

// NewPatternFilter creates a new pattern filter.
func NewPatternFilter(include, exclude []string) *PatternFilter {
	return &PatternFilter{
		Include: include,
		Exclude: exclude,
	}
}

// Matches returns true if the path passes the filter.
// If include patterns are set, at least one must match.
// If exclude patterns are set, none must match.
func (f *PatternFilter) Matches(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range f.Exclude {
		if match(pattern, base, path) {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if match(pattern, base, path) {
			return true
		}
	}
	return false
}

func match(pattern, base, path string) bool {
	if ok, _ := filepath.Match(pattern, base); ok {
		return true
	}
	ok, _ := filepath.Match(pattern, path)
	return ok
}

func skipDir(name string) bool {
	return skipDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}
