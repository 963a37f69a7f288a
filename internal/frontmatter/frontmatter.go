// Package frontmatter checks the YAML headers of content files for
// consistency: required fields present, unknown fields flagged with a
// nearest-match suggestion.
package frontmatter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"docsync/internal/domain"
)

const delimiter = "---"

// maxSuggestionDistance bounds how far a typo may be from a known field
// before we stop suggesting it.
const maxSuggestionDistance = 3

// Header is the parsed YAML frontmatter of one content file.
type Header map[string]any

// Violation describes one frontmatter problem in a file.
type Violation struct {
	Path    string
	Field   string
	Message string
}

func (v Violation) String() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %s", v.Path, v.Message)
	}
	return fmt.Sprintf("%s: %s: %s", v.Path, v.Field, v.Message)
}

// Parse extracts and decodes the leading --- delimited YAML block.
// ok is false when the document has no frontmatter at all.
func Parse(text string) (h Header, ok bool, err error) {
	rest, found := strings.CutPrefix(text, delimiter+"\n")
	if !found {
		return nil, false, nil
	}
	raw, tail, found := strings.Cut(rest, "\n"+delimiter)
	if !found || (tail != "" && !strings.HasPrefix(tail, "\n")) {
		return nil, true, errors.New("unterminated frontmatter block")
	}
	if err := yaml.Unmarshal([]byte(raw), &h); err != nil {
		return nil, true, fmt.Errorf("invalid frontmatter YAML: %w", err)
	}
	return h, true, nil
}

// Checker validates frontmatter headers against the configured field sets.
type Checker struct {
	required []string
	known    map[string]struct{} // required + optional; empty disables unknown-key checks
	logger   *slog.Logger
}

// NewChecker creates a Checker. required fields must appear in every file;
// optional fields are allowed silently; anything else is flagged.
func NewChecker(required, optional []string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	known := make(map[string]struct{}, len(required)+len(optional))
	for _, f := range required {
		known[f] = struct{}{}
	}
	for _, f := range optional {
		known[f] = struct{}{}
	}
	return &Checker{required: required, known: known, logger: logger}
}

// CheckFile validates one content file and returns its violations.
func (c *Checker) CheckFile(path string) ([]Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, ok, err := Parse(string(data))
	if err != nil {
		return []Violation{{Path: path, Message: err.Error()}}, nil
	}
	if !ok {
		if len(c.required) == 0 {
			return nil, nil
		}
		return []Violation{{Path: path, Message: "missing frontmatter header"}}, nil
	}

	var violations []Violation
	for _, field := range c.required {
		if _, present := header[field]; !present {
			violations = append(violations, Violation{
				Path:    path,
				Field:   field,
				Message: "required field is missing",
			})
		}
	}

	if len(c.known) > 0 {
		for _, key := range sortedKeys(header) {
			if _, recognized := c.known[key]; recognized {
				continue
			}
			msg := "unknown field"
			if hint := c.suggest(key); hint != "" {
				msg = fmt.Sprintf("unknown field (did you mean %q?)", hint)
			}
			violations = append(violations, Violation{Path: path, Field: key, Message: msg})
		}
	}
	return violations, nil
}

// CheckTree walks root and validates every markup file beneath it.
func (c *Checker) CheckTree(root string) ([]Violation, error) {
	var violations []Violation
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !domain.IsMarkupPath(path) {
			return nil
		}
		c.logger.Debug("checking frontmatter", "path", path)
		vs, err := c.CheckFile(path)
		if err != nil {
			return err
		}
		violations = append(violations, vs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return violations, nil
}

// suggest returns the known field closest to key, if any is close enough
// to look like a typo.
func (c *Checker) suggest(key string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for known := range c.known {
		if d := fuzzy.LevenshteinDistance(key, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

func sortedKeys(h Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
