package frontmatter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/log"
)

func TestParse(t *testing.T) {
	h, ok, err := Parse("---\ntitle: Widget\ndescription: a widget\n---\n\n# Body\n")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Widget", h["title"])
	assert.Equal(t, "a widget", h["description"])
}

func TestParse_NoHeader(t *testing.T) {
	_, ok, err := Parse("# Just a document\n")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParse_Unterminated(t *testing.T) {
	_, ok, err := Parse("---\ntitle: Widget\n")

	assert.True(t, ok)
	assert.Error(t, err)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, ok, err := Parse("---\ntitle: [unclosed\n---\n")

	assert.True(t, ok)
	assert.Error(t, err)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestCheckTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.md":           "---\ntitle: Good\ndescription: fine\n---\n# ok\n",
		"missing.mdx":       "---\ntitle: Only title\n---\n# hm\n",
		"headerless.md":     "# no frontmatter at all\n",
		"sub/typo.md":       "---\ntitle: T\ndescription: D\ntitel: oops\n---\n",
		"ignored/data.json": "{}",
	})

	checker := NewChecker([]string{"title", "description"}, []string{"sidebar_position"}, log.NullLogger())
	violations, err := checker.CheckTree(root)
	require.NoError(t, err)

	byPath := map[string][]Violation{}
	for _, v := range violations {
		rel, _ := filepath.Rel(root, v.Path)
		byPath[rel] = append(byPath[rel], v)
	}

	assert.NotContains(t, byPath, "good.md")
	assert.NotContains(t, byPath, filepath.Join("ignored", "data.json"))

	require.Len(t, byPath["missing.mdx"], 1)
	assert.Equal(t, "description", byPath["missing.mdx"][0].Field)

	require.Len(t, byPath["headerless.md"], 1)
	assert.Contains(t, byPath["headerless.md"][0].Message, "missing frontmatter")

	typos := byPath[filepath.Join("sub", "typo.md")]
	require.Len(t, typos, 1)
	assert.Equal(t, "titel", typos[0].Field)
	assert.Contains(t, typos[0].Message, `did you mean "title"`)
}

func TestCheckFile_NoKnownFieldsSkipsUnknownCheck(t *testing.T) {
	root := writeTree(t, map[string]string{
		"free.md": "---\nanything: goes\n---\n",
	})

	checker := NewChecker(nil, nil, log.NullLogger())
	violations, err := checker.CheckFile(filepath.Join(root, "free.md"))

	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestSuggest_DistanceBound(t *testing.T) {
	checker := NewChecker([]string{"title"}, nil, log.NullLogger())

	assert.Equal(t, "title", checker.suggest("titel"))
	assert.Empty(t, checker.suggest("completely_different"))
}
