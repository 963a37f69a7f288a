// Package transform normalizes fetched Markdown for the component-aware
// markup pipeline, which requires void HTML elements to be explicitly
// self-closed and rejects raw HTML comments.
package transform

import (
	"fmt"
	"regexp"
)

var (
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	bareBreaks   = regexp.MustCompile(`<br\s*>`)
	bareRules    = regexp.MustCompile(`<hr\s*>`)
	bareImages   = regexp.MustCompile(`<img(\s[^>]*[^/>])?>`)
)

// Normalize rewrites HTML constructs the renderer rejects. It is pure and
// idempotent: running it on already-clean content is a no-op.
func Normalize(md string) string {
	out := htmlComments.ReplaceAllString(md, "")
	out = bareBreaks.ReplaceAllString(out, "<br />")
	out = bareRules.ReplaceAllString(out, "<hr />")
	out = bareImages.ReplaceAllString(out, "<img$1 />")
	return out
}

// Rule is a single shortcode replacement. Pattern is a regular expression;
// Replace may reference capture groups ($1, $2, ...).
type Rule struct {
	Pattern string
	Replace string
}

// Migrate applies the shortcode rules to text in order, returning the
// rewritten text and the total number of replacements made.
func Migrate(text string, rules []Rule) (string, int, error) {
	total := 0
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return "", 0, fmt.Errorf("invalid shortcode pattern %q: %w", r.Pattern, err)
		}
		n := len(re.FindAllStringIndex(text, -1))
		if n == 0 {
			continue
		}
		text = re.ReplaceAllString(text, r.Replace)
		total += n
	}
	return text, total, nil
}
