package domain

import (
	"path/filepath"
	"strings"
)

// Source is one configured remote document to mirror into the content cache.
type Source struct {
	URL     string // Raw document URL (e.g. raw.githubusercontent.com)
	Output  string // Destination path, relative to the cache directory
	Private bool   // Requires an API token to fetch
}

// IsMarkup reports whether the output file will be rendered through the
// component-aware markup pipeline and therefore needs HTML normalization.
// Anything else (JSON specs, plain text) is written verbatim.
func (s Source) IsMarkup() bool {
	return IsMarkupPath(s.Output)
}

// IsMarkupPath reports whether path has a markup extension.
func IsMarkupPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx":
		return true
	}
	return false
}
