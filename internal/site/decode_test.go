package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

const fullDocument = `{
  "name": "Coffee Corner",
  "title": "Coffee Corner",
  "description": "Beans and brews",
  "config": {"title": "Coffee Corner", "paginate": 5, "plugins": ["jekyll-feed"]},
  "layouts": [{"name": "default", "content": "<html>{{ content }}</html>"}],
  "includes": [{"name": "nav.html", "content": "<nav></nav>"}],
  "posts": [{"title": "Opening Day", "date": "2024-03-01", "content": "We are open."}],
  "pages": [{"name": "about.md", "content": "# About"}],
  "collections": {"menu": [{"name": "espresso", "content": "Strong."}]},
  "assets": {"css": "body{}", "js": ""}
}`

func TestDecodeFullDocument(t *testing.T) {
	doc, err := Decode([]byte(fullDocument))
	require.NoError(t, err)

	assert.Equal(t, "coffee-corner", doc.DirName())
	assert.Equal(t, "Beans and brews", doc.Description)
	assert.Equal(t, float64(5), doc.Config["paginate"])
	require.Len(t, doc.Layouts, 1)
	assert.Equal(t, "default", doc.Layouts[0].Name)
	require.Len(t, doc.Posts, 1)
	assert.Equal(t, "2024-03-01", doc.Posts[0].Date)
	require.Len(t, doc.Collections["menu"], 1)
	require.NotNil(t, doc.Assets)
	assert.Equal(t, "body{}", doc.Assets.CSS)
	require.NotNil(t, doc.Assets.JS, "present-but-empty js must survive decoding")
	assert.Empty(t, *doc.Assets.JS)
	assert.Equal(t, 6, doc.FileCount())
}

func TestDecodeUnwrapsStructureEnvelope(t *testing.T) {
	doc, err := Decode([]byte(`{"structure": {"name": "Blog", "pages": [{"name": "index", "content": "hi"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, "blog", doc.DirName())
	assert.Len(t, doc.Pages, 1)
}

func TestDecodeEmptyDocument(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultDirName, doc.DirName())
	assert.Nil(t, doc.Assets)
	assert.Zero(t, doc.FileCount())
}

func TestDecodeNullCategories(t *testing.T) {
	doc, err := Decode([]byte(`{"layouts": null, "assets": {"css": null}}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Layouts)
	require.NotNil(t, doc.Assets)
	assert.Nil(t, doc.Assets.JS)
}

func TestDecodeRejectsWrongShapes(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"name":`,
		"layouts as object":  `{"layouts": {"name": "default"}}`,
		"entry without name": `{"pages": [{"content": "x"}]}`,
		"post missing date":  `{"posts": [{"title": "x", "content": "y"}]}`,
		"numeric title":      `{"title": 42}`,
		"collection scalar":  `{"collections": {"menu": "espresso"}}`,
		"assets css number":  `{"assets": {"css": 1}}`,
		"top-level array":    `[]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			require.Error(t, err)
			assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestDecodeAcceptsEmptyPostTitle(t *testing.T) {
	// Empty titles are a materialization concern, not a shape problem.
	doc, err := Decode([]byte(`{"posts": [{"title": "", "date": "2024-01-01", "content": "x"}]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Posts[0].Title)
}

func TestLoadAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(fullDocument), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Coffee Corner", doc.DisplayTitle())

	doc, err = Read(strings.NewReader(`{"name": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", doc.DisplayTitle())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
}
