package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns glob patterns for editor scratch files that
// appear next to a watched sample file while it is being saved.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.swp",
		"*.swx",
		"*~",
		".#*", // Emacs lock files
		"4913", // Vim write probe
		"*.tmp",
	}
}

// FileFilter decides which event paths are ignored.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter. A nil slice selects the default
// patterns; an empty non-nil slice ignores nothing.
func NewFileFilter(patterns []string) *FileFilter {
	if patterns == nil {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{
		patterns: append([]string(nil), patterns...),
	}
}

// ShouldIgnore matches the base name of path against every pattern.
// A pattern starting with "." and without wildcards also matches as a
// case-insensitive suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	name := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") {
			if strings.HasSuffix(strings.ToLower(name), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Patterns returns a copy of the configured patterns.
func (f *FileFilter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}
