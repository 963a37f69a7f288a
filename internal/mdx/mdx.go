// Package mdx compile-checks MDX content: the Markdown layer is parsed
// with goldmark, and the JSX constructs goldmark cannot see (component
// tags, comments, expression braces) are scanned separately.
package mdx

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"docsync/internal/domain"
)

// Error is a positioned MDX syntax error.
type Error struct {
	Path    string
	Line    int // 1-based; 0 when the position is unknown
	Column  int // 1-based; 0 when the position is unknown
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

var (
	// Component tags start with an upper-case letter; plain HTML tags are
	// left to the normalizer.
	openTag  = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*)(\s[^<>]*)?>`)
	closeTag = regexp.MustCompile(`</([A-Z][A-Za-z0-9]*)\s*>`)
	selfTag  = regexp.MustCompile(`<[A-Z][A-Za-z0-9]*(\s[^<>]*)?/>`)
)

// Validator compile-checks MDX documents.
type Validator struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewValidator creates a Validator.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: logger,
	}
}

// CheckFile validates one document and returns its syntax errors.
func (v *Validator) CheckFile(path string) ([]*Error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return v.check(path, data), nil
}

// CheckTree walks root and validates every markup file beneath it.
func (v *Validator) CheckTree(root string) ([]*Error, error) {
	var all []*Error
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !domain.IsMarkupPath(path) {
			return nil
		}
		v.logger.Debug("compiling", "path", path)
		errs, err := v.CheckFile(path)
		if err != nil {
			return err
		}
		all = append(all, errs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return all, nil
}

func (v *Validator) check(path string, data []byte) []*Error {
	var errs []*Error

	if err := v.md.Convert(data, io.Discard); err != nil {
		errs = append(errs, &Error{Path: path, Message: fmt.Sprintf("markdown compile failed: %v", err)})
	}

	errs = append(errs, scanJSX(path, data)...)
	return errs
}

// tagRef tracks an open component tag awaiting its close.
type tagRef struct {
	name string
	line int
	col  int
}

// scanJSX checks the constructs the markdown parser does not understand:
// component tag balance, comment termination, expression braces. Fenced
// code blocks are skipped.
func scanJSX(path string, data []byte) []*Error {
	var errs []*Error
	var stack []tagRef

	inFence := false
	inComment := false
	commentLine := 0
	braceDepth := 0
	braceLine, braceCol := 0, 0

	for i, raw := range bytes.Split(data, []byte("\n")) {
		lineNo := i + 1
		line := string(raw)

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		// Blank comment spans so their contents cannot trip the scans;
		// comments may open and close across lines.
		wasInComment := inComment
		line = stripComments(line, &inComment)
		if inComment && !wasInComment {
			commentLine = lineNo
		}

		// Expression braces outside inline code spans.
		scrubbed := scrubInlineCode(line)
		for col, r := range scrubbed {
			switch r {
			case '{':
				if braceDepth == 0 {
					braceLine, braceCol = lineNo, col+1
				}
				braceDepth++
			case '}':
				braceDepth--
				if braceDepth < 0 {
					errs = append(errs, &Error{
						Path: path, Line: lineNo, Column: col + 1,
						Message: "unmatched closing brace",
					})
					braceDepth = 0
				}
			}
		}

		// Self-closing tags need no bookkeeping; blank them out first so
		// the open-tag pattern cannot also match them.
		clean := selfTag.ReplaceAllStringFunc(scrubbed, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
		for _, m := range openTag.FindAllStringSubmatchIndex(clean, -1) {
			stack = append(stack, tagRef{
				name: clean[m[2]:m[3]],
				line: lineNo,
				col:  m[0] + 1,
			})
		}
		for _, m := range closeTag.FindAllStringSubmatchIndex(clean, -1) {
			name := clean[m[2]:m[3]]
			if len(stack) == 0 {
				errs = append(errs, &Error{
					Path: path, Line: lineNo, Column: m[0] + 1,
					Message: fmt.Sprintf("closing tag </%s> has no opening tag", name),
				})
				continue
			}
			top := stack[len(stack)-1]
			if top.name != name {
				errs = append(errs, &Error{
					Path: path, Line: lineNo, Column: m[0] + 1,
					Message: fmt.Sprintf("closing tag </%s> does not match open <%s>", name, top.name),
				})
			}
			stack = stack[:len(stack)-1]
		}
	}

	if inComment {
		errs = append(errs, &Error{
			Path: path, Line: commentLine, Column: 1,
			Message: "unterminated HTML comment",
		})
	}
	if braceDepth > 0 {
		errs = append(errs, &Error{
			Path: path, Line: braceLine, Column: braceCol,
			Message: "unclosed expression brace",
		})
	}
	for _, open := range stack {
		errs = append(errs, &Error{
			Path: path, Line: open.line, Column: open.col,
			Message: fmt.Sprintf("component <%s> is never closed", open.name),
		})
	}
	return errs
}

// stripComments blanks comment spans in line, tracking open-comment state
// across lines. Positions of the surviving text are preserved.
func stripComments(line string, inComment *bool) string {
	var b strings.Builder
	rest := line
	for {
		if *inComment {
			end := strings.Index(rest, "-->")
			if end < 0 {
				b.WriteString(strings.Repeat(" ", len(rest)))
				return b.String()
			}
			b.WriteString(strings.Repeat(" ", end+3))
			*inComment = false
			rest = rest[end+3:]
			continue
		}
		start := strings.Index(rest, "<!--")
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:start])
		b.WriteString("    ")
		*inComment = true
		rest = rest[start+4:]
	}
}

// scrubInlineCode blanks out `code` spans so their contents cannot trip
// the brace or tag scans. Positions are preserved.
func scrubInlineCode(line string) string {
	out := []rune(line)
	inCode := false
	for i, r := range out {
		if r == '`' {
			inCode = !inCode
			out[i] = ' '
			continue
		}
		if inCode {
			out[i] = ' '
		}
	}
	return string(out)
}
