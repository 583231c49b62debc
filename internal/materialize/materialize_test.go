package materialize

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/metrics"
	"git.home.luguber.info/inful/jekyll-studio/internal/scaffold"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
	studiotest "git.home.luguber.info/inful/jekyll-studio/internal/testing"
)

func minimalDocument() *site.Document {
	return &site.Document{
		Title:   "Coffee Corner",
		Layouts: []site.Entry{{Name: "default", Content: "<html>{{ content }}</html>"}},
		Posts:   []site.Post{{Title: "My First Post", Date: "2024-03-01", Content: "Hello."}},
		Assets:  &site.Assets{CSS: "body { margin: 0; }"},
	}
}

func fullDocument() *site.Document {
	return &site.Document{
		Name:        "Coffee Corner",
		Title:       "Coffee Corner",
		Description: "Beans and brews",
		Config:      map[string]any{"title": "Coffee Corner", "plugins": []any{"jekyll-feed"}},
		Layouts: []site.Entry{
			{Name: "default", Content: "<html>{{ content }}</html>"},
			{Name: "post.html", Content: "<article>{{ content }}</article>"},
		},
		Includes: []site.Entry{{Name: "nav", Content: "<nav></nav>"}},
		Posts: []site.Post{
			{Title: "Opening Day!", Date: "2024-03-01", Content: "We are open."},
			{Title: "Spring Menu", Date: "2024-04-01", Content: "New drinks."},
		},
		Pages: []site.Entry{
			{Name: "about.md", Content: "# About"},
			{Name: "contact", Content: "<p>Call us</p>"},
		},
		Collections: map[string][]site.Entry{
			"menu":  {{Name: "espresso", Content: "Strong."}, {Name: "latte.html", Content: "Milky."}},
			"staff": {{Name: "barista", Content: "Ana"}},
		},
		Assets: &site.Assets{CSS: "body{}", JS: site.StringPtr("")},
	}
}

func TestMaterializeMinimalTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")

	res, err := New().Materialize(context.Background(), root, minimalDocument())
	require.NoError(t, err)

	fa := studiotest.NewFileAssertions(t, root)
	fa.AssertTree(
		".gitignore",
		"Gemfile",
		"README.md",
		"_layouts/",
		"_layouts/default.html",
		"_posts/",
		"_posts/2024-03-01-my-first-post.md",
		"assets/",
		"assets/css/",
		"assets/css/style.css",
		"assets/images/",
		"assets/images/.gitkeep",
	)
	fa.AssertEmptyFile("assets/images/.gitkeep").
		AssertFileEquals("assets/css/style.css", "body { margin: 0; }").
		AssertFileEquals("_posts/2024-03-01-my-first-post.md", "Hello.").
		AssertFileContains("README.md", "# Coffee Corner")

	assert.Equal(t, root, res.Root)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Counts[CategoryScaffold])
	assert.Equal(t, 1, res.Counts[CategoryLayouts])
	assert.Equal(t, 1, res.Counts[CategoryPosts])
	assert.Equal(t, 2, res.Counts[CategoryAssets])
	assert.Len(t, res.Files, 7)
	assert.IsIncreasing(t, res.Files)
}

func TestMaterializeFullTree(t *testing.T) {
	root := t.TempDir()

	_, err := New().Materialize(context.Background(), root, fullDocument())
	require.NoError(t, err)

	fa := studiotest.NewFileAssertions(t, root)
	fa.AssertFileEquals("_config.yml", "plugins:\n  - jekyll-feed\ntitle: Coffee Corner\n").
		AssertFileExists("_layouts/default.html").
		AssertFileExists("_layouts/post.html").
		AssertFileExists("_includes/nav.html").
		AssertFileExists("_posts/2024-03-01-opening-day.md").
		AssertFileExists("_posts/2024-04-01-spring-menu.md").
		AssertFileEquals("about.md", "# About").
		AssertFileEquals("contact.html", "<p>Call us</p>").
		AssertFileEquals("_menu/espresso.md", "Strong.").
		AssertFileEquals("_menu/latte.html", "Milky.").
		AssertFileEquals("_staff/barista.md", "Ana").
		AssertFileEquals("assets/js/script.js", ScriptPlaceholder).
		AssertFileContains("README.md", "Beans and brews").
		AssertFileEquals("Gemfile", scaffold.Gemfile())
}

func TestMaterializeNilDocumentWritesScaffoldOnly(t *testing.T) {
	root := t.TempDir()
	_, err := New().Materialize(context.Background(), root, nil)
	require.NoError(t, err)

	studiotest.NewFileAssertions(t, root).
		AssertTree(".gitignore", "Gemfile", "README.md").
		AssertFileContains("README.md", "# "+scaffold.DefaultTitle)
}

func TestMaterializeIsIdempotentUnderConfirmedOverwrite(t *testing.T) {
	base := t.TempDir()
	once := filepath.Join(base, "once")
	twice := filepath.Join(base, "twice")
	m := New()

	_, err := m.Materialize(context.Background(), once, fullDocument())
	require.NoError(t, err)

	_, err = m.Materialize(context.Background(), twice, fullDocument())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(twice))
	_, err = m.Materialize(context.Background(), twice, fullDocument())
	require.NoError(t, err)

	assert.Equal(t,
		studiotest.NewFileAssertions(t, once).Snapshot(),
		studiotest.NewFileAssertions(t, twice).Snapshot())
}

func TestMaterializeEmptyPostTitleFailsBeforeAnyPostIsWritten(t *testing.T) {
	root := t.TempDir()
	doc := minimalDocument()
	doc.Posts = []site.Post{
		{Title: "Fine", Date: "2024-01-01", Content: "ok"},
		{Title: "", Date: "2024-01-02", Content: "broken"},
	}

	_, err := New().Materialize(context.Background(), root, doc)
	require.Error(t, err)
	assert.True(t, serrors.IsInvalidEntry(err), "got %v", err)

	fa := studiotest.NewFileAssertions(t, root)
	// Earlier categories remain on disk.
	fa.AssertFileExists("Gemfile").AssertFileExists("_layouts/default.html")
	// Nothing of the failing category or later ones was written.
	fa.AssertFileNotExists("_posts").AssertFileNotExists("assets")
}

func TestMaterializeInvalidNames(t *testing.T) {
	cases := map[string]*site.Document{
		"blank layout":       {Layouts: []site.Entry{{Name: "  "}}},
		"escaping include":   {Includes: []site.Entry{{Name: "../../etc/passwd"}}},
		"absolute page":      {Pages: []site.Entry{{Name: "/tmp/evil"}}},
		"collection slash":   {Collections: map[string][]site.Entry{"a/b": {{Name: "x"}}}},
		"blank collection":   {Collections: map[string][]site.Entry{"menu": {{Name: ""}}}},
		"punctuation title":  {Posts: []site.Post{{Title: "???", Date: "2024-01-01"}}},
		"empty post date":    {Posts: []site.Post{{Title: "Hi", Date: ""}}},
		"dot collection key": {Collections: map[string][]site.Entry{"..": {{Name: "x"}}}},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New().Materialize(context.Background(), t.TempDir(), doc)
			assert.True(t, serrors.IsInvalidEntry(err), "got %v", err)
		})
	}
}

func TestMaterializeCollectionsStopAtInvalidKey(t *testing.T) {
	root := t.TempDir()
	doc := &site.Document{Collections: map[string][]site.Entry{
		"alpha": {{Name: "one", Content: "1"}},
		"beta":  {{Name: "", Content: "2"}},
	}}

	_, err := New().Materialize(context.Background(), root, doc)
	require.True(t, serrors.IsInvalidEntry(err))

	studiotest.NewFileAssertions(t, root).
		AssertFileExists("_alpha/one.md").
		AssertFileNotExists("_beta")
}

func TestMaterializeDirectoryCreationError(t *testing.T) {
	root := t.TempDir()
	// A regular file where the layouts directory belongs.
	require.NoError(t, os.WriteFile(filepath.Join(root, LayoutsDir), []byte("x"), 0o600))

	_, err := New().Materialize(context.Background(), root, minimalDocument())
	require.Error(t, err)
	require.True(t, serrors.IsDirectoryCreation(err), "got %v", err)

	se, ok := serrors.As(err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, LayoutsDir), se.Path())
}

func TestMaterializeWriteError(t *testing.T) {
	root := t.TempDir()
	// A directory where the layout file belongs.
	require.NoError(t, os.MkdirAll(filepath.Join(root, LayoutsDir, "default.html"), 0o750))

	_, err := New().Materialize(context.Background(), root, minimalDocument())
	require.Error(t, err)
	require.True(t, serrors.IsWrite(err), "got %v", err)

	se, _ := serrors.As(err)
	assert.Equal(t, filepath.Join(root, LayoutsDir, "default.html"), se.Path())
	studiotest.NewFileAssertions(t, root).AssertFileNotExists(PostsDir)
}

func TestMaterializeDuplicateNamesLastWins(t *testing.T) {
	root := t.TempDir()
	doc := &site.Document{Pages: []site.Entry{
		{Name: "index", Content: "first"},
		{Name: "index.html", Content: "second"},
	}}

	res, err := New().Materialize(context.Background(), root, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Counts[CategoryPages])
	studiotest.NewFileAssertions(t, root).AssertFileEquals("index.html", "second")
}

func TestMaterializeNestedEntryNames(t *testing.T) {
	root := t.TempDir()
	doc := &site.Document{Includes: []site.Entry{{Name: "partials/nav", Content: "<nav/>"}}}

	_, err := New().Materialize(context.Background(), root, doc)
	require.NoError(t, err)
	studiotest.NewFileAssertions(t, root).AssertFileEquals("_includes/partials/nav.html", "<nav/>")
}

func TestMaterializeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Materialize(ctx, t.TempDir(), minimalDocument())
	assert.ErrorIs(t, err, context.Canceled)
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	results  map[string]map[metrics.ResultLabel]int
	files    map[string]int
	outcomes map[metrics.OutcomeLabel]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		results:  map[string]map[metrics.ResultLabel]int{},
		files:    map[string]int{},
		outcomes: map[metrics.OutcomeLabel]int{},
	}
}

func (c *countingRecorder) IncCategoryResult(category string, result metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results[category] == nil {
		c.results[category] = map[metrics.ResultLabel]int{}
	}
	c.results[category][result]++
}

func (c *countingRecorder) AddFilesWritten(category string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[category] += n
}

func (c *countingRecorder) IncMaterializeOutcome(o metrics.OutcomeLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[o]++
}

func TestMaterializeReportsMetrics(t *testing.T) {
	rec := newCountingRecorder()
	m := New(WithRecorder(rec), WithConcurrency(2))

	_, err := m.Materialize(context.Background(), t.TempDir(), fullDocument())
	require.NoError(t, err)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
	assert.Equal(t, 3, rec.files[CategoryScaffold])
	assert.Equal(t, 2, rec.files[CategoryPosts])
	assert.Equal(t, 3, rec.files[CategoryCollections])
	assert.Equal(t, 2, rec.results[CategoryCollections][metrics.ResultSuccess])

	doc := minimalDocument()
	doc.Posts[0].Title = ""
	_, err = m.Materialize(context.Background(), t.TempDir(), doc)
	require.Error(t, err)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
	assert.Equal(t, 1, rec.results[CategoryPosts][metrics.ResultInvalid])
}
