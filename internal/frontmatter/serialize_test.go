package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, "\n")
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeYAML_DeterministicOrder(t *testing.T) {
	fields := map[string]any{"b": "two", "a": "one", "c": 3}

	out1, err := SerializeYAML(fields, "\n")
	require.NoError(t, err)
	out2, err := SerializeYAML(fields, "\n")
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out1))
}

func TestSerializeYAML_LeadingKeysFirst(t *testing.T) {
	fields := map[string]any{"tags": []string{"coffee"}, "title": "Hi", "layout": "post"}
	out, err := SerializeYAML(fields, "\n", "layout", "title", "missing")
	require.NoError(t, err)
	require.Equal(t, "layout: post\ntitle: Hi\ntags:\n  - coffee\n", string(out))
}

func TestSerializeYAML_CRLF(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"a": "one"}, "\r\n")
	require.NoError(t, err)
	require.Equal(t, "a: one\r\n", string(out))
}

func TestSerializeYAML_NestedMapSorted(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"outer": map[string]any{"b": 2, "a": 1}}, "\n")
	require.NoError(t, err)
	require.Equal(t, "outer:\n  a: 1\n  b: 2\n", string(out))
}

func TestSerializeYAML_Time(t *testing.T) {
	when := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	out, err := SerializeYAML(map[string]any{"date": when}, "\n")
	require.NoError(t, err)
	require.Equal(t, "date: 2024-03-01 09:30:00 +0000\n", string(out))
}
