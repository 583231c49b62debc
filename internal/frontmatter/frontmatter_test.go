package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontMatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Split(input)
	require.NoError(t, err)
	require.False(t, doc.Had)
	require.Empty(t, doc.Raw)
	require.Equal(t, input, doc.Body)
}

func TestSplit_YAMLFrontMatter(t *testing.T) {
	doc, err := Split([]byte("---\nlayout: post\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, []byte("layout: post\n"), doc.Raw)
	require.Equal(t, []byte("# Title\n"), doc.Body)

	fields, err := doc.Fields()
	require.NoError(t, err)
	require.Equal(t, "post", fields["layout"])
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, []byte("title: x\n"), doc.Raw)
	require.Empty(t, doc.Body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF(t *testing.T) {
	doc, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "\r\n", doc.Newline)
	require.Equal(t, []byte("key: value\r\n"), doc.Raw)
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	doc, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Empty(t, doc.Raw)
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestBytes_RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}
	for _, input := range cases {
		doc, err := Split(input)
		require.NoError(t, err)
		require.Equal(t, input, doc.Bytes())
	}
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["title"])
	require.Equal(t, []any{"one"}, fields["tags"])

	fields, err = ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)

	_, err = ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestEnsure_PrependsWhenMissing(t *testing.T) {
	out, added, err := Ensure([]byte("\n# Espresso\n\nBody.\n"),
		map[string]any{"title": "Espresso", "layout": "post", "date": "2024-03-01"},
		"layout", "title", "date")
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, "---\nlayout: post\ntitle: Espresso\ndate: \"2024-03-01\"\n---\n\n# Espresso\n\nBody.\n", string(out))
}

func TestEnsure_KeepsExistingBlock(t *testing.T) {
	input := []byte("---\ntitle: Mine\n---\nBody\n")
	out, added, err := Ensure(input, map[string]any{"title": "Other"}, "title")
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, input, out)
}
