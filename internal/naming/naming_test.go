package naming

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"My First Post", "my-first-post"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"Already-hyphenated title", "already-hyphenated-title"},
		{"Ünïcödé Straße", "ncd-strae"},
		{"2024 Roadmap", "2024-roadmap"},
		{"Hello\u00a0World", "hello-world"},
		{"Hello\u2003World", "hello-world"},
		{"Hello\u3000World", "hello-world"},
		{"Hello\vWorld", "hello-world"},
		{"Mixed \u00a0\t spaces", "mixed-spaces"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{
		"Hello, World!", "  spaced   out  ", "MiXeD CaSe 123", "emoji 🚀 launch",
		"punctuation: a/b\\c?d*e", "\t tab lead", "trail \n",
	}
	for _, in := range inputs {
		got := Slugify(in)
		assert.Regexp(t, valid, got, "input %q", in)
		if got != "" {
			assert.NotEqual(t, '-', rune(got[0]), "leading hyphen for %q", in)
			assert.NotEqual(t, '-', rune(got[len(got)-1]), "trailing hyphen for %q", in)
		}
	}
}

func TestPostFilename(t *testing.T) {
	first, err := PostFilename("2024-03-01", "My First Post")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01-my-first-post.md", first)

	second, err := PostFilename("2024-03-01", "My First Post")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPostFilenameUnicodeSpaces(t *testing.T) {
	got, err := PostFilename("2024-03-01", "My\u00a0First\u00a0Post")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01-my-first-post.md", got)
}

func TestSlugifyConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Equal(t, "hello-world-again", Slugify("Hello WORLD Again!"))
			}
		}()
	}
	wg.Wait()
}

func TestPostFilenameRejectsEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "?!"} {
		_, err := PostFilename("2024-03-01", title)
		require.Error(t, err)
		assert.True(t, serrors.IsInvalidEntry(err), "title %q", title)
	}
}

func TestPostFilenameKeepsOpaqueDate(t *testing.T) {
	got, err := PostFilename("2024-13-45", "Odd date")
	require.NoError(t, err)
	assert.Equal(t, "2024-13-45-odd-date.md", got)

	_, err = PostFilename("", "No date")
	assert.True(t, serrors.IsInvalidEntry(err))
	_, err = PostFilename("../2024", "Escape")
	assert.True(t, serrors.IsInvalidEntry(err))
}

func TestWithExtension(t *testing.T) {
	page := []string{".html", ".md"}
	assert.Equal(t, "about.html", WithExtension("about", page, ".html"))
	assert.Equal(t, "about.md", WithExtension("about.md", page, ".html"))
	assert.Equal(t, "about.html", WithExtension("about.html", page, ".html"))
	assert.Equal(t, "README.MD.html", WithExtension("README.MD", page, ".html"))
	assert.Equal(t, "default.html", WithExtension("default", LayoutExtensions.Allowed, LayoutExtensions.Default))
	assert.Equal(t, "post.md.html", WithExtension("post.md", LayoutExtensions.Allowed, LayoutExtensions.Default))
	assert.Equal(t, "widget.md", WithExtension("widget", CollectionItemExtensions.Allowed, CollectionItemExtensions.Default))
}

func TestEntryFilename(t *testing.T) {
	got, err := EntryFilename("page", " about ", PageExtensions)
	require.NoError(t, err)
	assert.Equal(t, "about.html", got)

	got, err = EntryFilename("include", "partials/nav", LayoutExtensions)
	require.NoError(t, err)
	assert.Equal(t, "partials/nav.html", got)

	for _, bad := range []string{"", "  ", ".", "..", "../etc/passwd", "/abs/path", "a/../../b"} {
		_, err := EntryFilename("layout", bad, LayoutExtensions)
		assert.True(t, serrors.IsInvalidEntry(err), "name %q", bad)
	}
}

func TestCollectionDir(t *testing.T) {
	got, err := CollectionDir("products")
	require.NoError(t, err)
	assert.Equal(t, "_products", got)

	for _, bad := range []string{"", " ", ".", "..", "a/b", `a\b`} {
		_, err := CollectionDir(bad)
		assert.True(t, serrors.IsInvalidEntry(err), "key %q", bad)
	}
}

func TestPathElement(t *testing.T) {
	require.NoError(t, PathElement("site", "My Site"))

	for _, bad := range []string{"", "  ", ".", "..", "../up", "a/b", `a\b`} {
		err := PathElement("site", bad)
		assert.True(t, serrors.IsInvalidEntry(err), "name %q", bad)
	}
}
