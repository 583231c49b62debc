package materialize

import (
	"bytes"
	"fmt"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/naming"
	"git.home.luguber.info/inful/jekyll-studio/internal/scaffold"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
)

// Category names, also used as metric labels.
const (
	CategoryScaffold    = "scaffold"
	CategoryConfig      = "config"
	CategoryLayouts     = "layouts"
	CategoryIncludes    = "includes"
	CategoryPosts       = "posts"
	CategoryPages       = "pages"
	CategoryCollections = "collections"
	CategoryAssets      = "assets"
)

const (
	ConfigFile        = "_config.yml"
	LayoutsDir        = "_layouts"
	IncludesDir       = "_includes"
	PostsDir          = "_posts"
	AssetsDir         = "assets"
	StylesheetFile    = "assets/css/style.css"
	ScriptFile        = "assets/js/script.js"
	ImagesMarker      = "assets/images/.gitkeep"
	ScriptPlaceholder = "// Add your JavaScript here\n"
)

// file is one planned write, relative to the site root (slash separated).
type file struct {
	rel     string
	content string
}

// category is a unit of work: its directories are created before any of its
// files are written.
type category struct {
	name  string
	label string
	dirs  []string
	files []file
}

// planner derives one category at a time so an invalid entry only stops the
// category it belongs to.
type planner func(doc *site.Document) ([]category, error)

var planners = []planner{
	planScaffold,
	planConfig,
	planEntries(CategoryLayouts, LayoutsDir, "layout", func(d *site.Document) []site.Entry { return d.Layouts }, naming.LayoutExtensions),
	planEntries(CategoryIncludes, IncludesDir, "include", func(d *site.Document) []site.Entry { return d.Includes }, naming.LayoutExtensions),
	planPosts,
	planEntries(CategoryPages, "", "page", func(d *site.Document) []site.Entry { return d.Pages }, naming.PageExtensions),
	planCollections,
	planAssets,
}

func planScaffold(doc *site.Document) ([]category, error) {
	c := category{name: CategoryScaffold, label: CategoryScaffold}
	files := scaffold.Files(doc.Title, doc.Description)
	for _, name := range []string{scaffold.GemfileName, scaffold.GitIgnoreName, scaffold.ReadmeName} {
		c.files = append(c.files, file{rel: name, content: files[name]})
	}
	return []category{c}, nil
}

func planConfig(doc *site.Document) ([]category, error) {
	if doc.Config == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Config); err != nil {
		return nil, serrors.InvalidEntry("config", ConfigFile, fmt.Sprintf("cannot serialize: %v", err))
	}
	if err := enc.Close(); err != nil {
		return nil, serrors.InvalidEntry("config", ConfigFile, fmt.Sprintf("cannot serialize: %v", err))
	}
	return []category{{
		name:  CategoryConfig,
		label: CategoryConfig,
		files: []file{{rel: ConfigFile, content: buf.String()}},
	}}, nil
}

func planEntries(name, dir, kind string, pick func(*site.Document) []site.Entry, policy naming.ExtensionPolicy) planner {
	return func(doc *site.Document) ([]category, error) {
		entries := pick(doc)
		if entries == nil {
			return nil, nil
		}
		c, err := entryCategory(name, name, dir, kind, entries, policy)
		if err != nil {
			return nil, err
		}
		return []category{c}, nil
	}
}

func entryCategory(name, label, dir, kind string, entries []site.Entry, policy naming.ExtensionPolicy) (category, error) {
	c := category{name: name, label: label}
	if dir != "" {
		c.dirs = append(c.dirs, dir)
	}
	for _, e := range entries {
		filename, err := naming.EntryFilename(kind, e.Name, policy)
		if err != nil {
			return category{}, err
		}
		c.files = append(c.files, file{rel: path.Join(dir, filename), content: e.Content})
	}
	c.files = dedupe(c.files)
	return c, nil
}

func planPosts(doc *site.Document) ([]category, error) {
	if doc.Posts == nil {
		return nil, nil
	}
	c := category{name: CategoryPosts, label: CategoryPosts, dirs: []string{PostsDir}}
	for _, p := range doc.Posts {
		filename, err := naming.PostFilename(p.Date, p.Title)
		if err != nil {
			return nil, err
		}
		c.files = append(c.files, file{rel: path.Join(PostsDir, filename), content: p.Content})
	}
	c.files = dedupe(c.files)
	return []category{c}, nil
}

func planCollections(doc *site.Document) ([]category, error) {
	if len(doc.Collections) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(doc.Collections))
	for k := range doc.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]category, 0, len(keys))
	for _, key := range keys {
		dir, err := naming.CollectionDir(key)
		if err != nil {
			return out, err
		}
		c, err := entryCategory(CategoryCollections+"/"+key, CategoryCollections, dir, "collection item", doc.Collections[key], naming.CollectionItemExtensions)
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}

func planAssets(doc *site.Document) ([]category, error) {
	if doc.Assets == nil {
		return nil, nil
	}
	c := category{name: CategoryAssets, label: CategoryAssets, dirs: []string{AssetsDir}}
	if doc.Assets.CSS != "" {
		c.files = append(c.files, file{rel: StylesheetFile, content: doc.Assets.CSS})
	}
	if doc.Assets.JS != nil {
		js := *doc.Assets.JS
		if js == "" {
			js = ScriptPlaceholder
		}
		c.files = append(c.files, file{rel: ScriptFile, content: js})
	}
	c.files = append(c.files, file{rel: ImagesMarker})
	return []category{c}, nil
}

// dedupe keeps the last entry for each path so concurrent writes never race
// on the same file.
func dedupe(files []file) []file {
	seen := make(map[string]int, len(files))
	out := make([]file, 0, len(files))
	for _, f := range files {
		if i, ok := seen[f.rel]; ok {
			out[i] = f
			continue
		}
		seen[f.rel] = len(out)
		out = append(out, f)
	}
	return out
}
