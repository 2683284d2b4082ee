package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterly/internal/platform/markdown"
)

type header struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,omitempty"`
}

func TestNoteRoundTrip(t *testing.T) {
	rendered, err := markdown.WriteNote(header{Title: "Dune", Tags: []string{"sf"}}, "\n\n# Dune\n")
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Dune\ntags:\n  - sf\n---\n\n# Dune\n", rendered)

	var got header
	body, err := markdown.ParseNote(rendered, &got)
	require.NoError(t, err)
	assert.Equal(t, header{Title: "Dune", Tags: []string{"sf"}}, got)
	assert.Equal(t, "# Dune\n", body)
}

func TestParseNoteVariants(t *testing.T) {
	var h header
	body, err := markdown.ParseNote("# Just text\n", &h)
	require.NoError(t, err)
	assert.Equal(t, "# Just text\n", body)
	assert.Empty(t, h.Title)

	body, err = markdown.ParseNote("---\r\ntitle: Emma\r\n---\r\nbody\r\n", &h)
	require.NoError(t, err)
	assert.Equal(t, "Emma", h.Title)
	assert.Equal(t, "body\n", body)

	body, err = markdown.ParseNote("---\n---\nonly body", &h)
	require.NoError(t, err)
	assert.Equal(t, "only body", body)

	body, err = markdown.ParseNote("---\ntitle: Kindred\n---", &h)
	require.NoError(t, err)
	assert.Equal(t, "Kindred", h.Title)
	assert.Empty(t, body)

	_, err = markdown.ParseNote("---\ntitle: open\n", &h)
	assert.ErrorContains(t, err, "not closed")

	_, err = markdown.ParseNote("---\ntitle: [unbalanced\n---\n", &h)
	assert.ErrorContains(t, err, "decode note header")
}

func TestSectionPutAndContent(t *testing.T) {
	section := markdown.Section{Name: "log"}

	fresh := section.Put("", "a")
	assert.Equal(t, "<!-- log:start -->\na\n<!-- log:end -->\n", fresh)

	appended := section.Put("# Title\n\nnotes\n", "a")
	assert.Equal(t, "# Title\n\nnotes\n\n<!-- log:start -->\na\n<!-- log:end -->\n", appended)

	replaced := section.Put(appended+"\nafter\n", "\nb\nc\n")
	assert.Equal(t, "# Title\n\nnotes\n\n<!-- log:start -->\nb\nc\n<!-- log:end -->\n\nafter\n", replaced)

	content, ok := section.Content(replaced)
	assert.True(t, ok)
	assert.Equal(t, "b\nc", content)

	_, ok = markdown.Section{Name: "other"}.Content(replaced)
	assert.False(t, ok)
}

func TestSectionRemove(t *testing.T) {
	section := markdown.Section{Name: "log"}
	body := "intro\n\n<!-- log:start -->\nx\n<!-- log:end -->\n\noutro\n"

	assert.Equal(t, "intro\noutro\n", section.Remove(body))
	assert.Equal(t, "untouched", section.Remove("untouched"))
	// an end marker before the start marker is not a section
	assert.Equal(t, "<!-- log:end --> <!-- log:start -->", section.Remove("<!-- log:end --> <!-- log:start -->"))
}

func TestTable(t *testing.T) {
	table := markdown.NewTable(
		markdown.Column{Title: "Date"},
		markdown.Column{Title: "Min", Align: markdown.AlignRight},
	)
	table.Row("2024-03-18", "30")
	table.Row("a|b", "5", "ignored")
	table.Row("x")

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, ""+
		"| Date       | Min |\n"+
		"| ---------- | --: |\n"+
		"| 2024-03-18 |  30 |\n"+
		"| a\\|b       |   5 |\n"+
		"| x          |     |",
		table.String())
}
