// Package site defines the Site Structure Document: the abstract description
// of a Jekyll site that the materializer turns into files.
package site

import (
	"strings"

	"git.home.luguber.info/inful/jekyll-studio/internal/naming"
)

// DefaultDirName is used when a document carries no usable name.
const DefaultDirName = "jekyll-site"

// Entry is a named file in the layouts, includes, pages or a collection.
type Entry struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Post is a dated blog post.
type Post struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Assets holds the stylesheet and script. JS distinguishes an absent key (nil)
// from an empty one.
type Assets struct {
	CSS string  `json:"css,omitempty"`
	JS  *string `json:"js,omitempty"`
}

// Document is a Site Structure Document. Every category is optional; a nil or
// empty category is skipped.
type Document struct {
	Name        string             `json:"name,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Config      map[string]any     `json:"config,omitempty"`
	Layouts     []Entry            `json:"layouts,omitempty"`
	Includes    []Entry            `json:"includes,omitempty"`
	Posts       []Post             `json:"posts,omitempty"`
	Pages       []Entry            `json:"pages,omitempty"`
	Collections map[string][]Entry `json:"collections,omitempty"`
	Assets      *Assets            `json:"assets,omitempty"`
}

// DirName is the directory a document asks to be materialized into: its
// slugified name, or DefaultDirName.
func (d *Document) DirName() string {
	if d == nil {
		return DefaultDirName
	}
	if slug := naming.Slugify(d.Name); slug != "" {
		return slug
	}
	return DefaultDirName
}

// DisplayTitle returns the title, falling back to the name.
func (d *Document) DisplayTitle() string {
	if d == nil {
		return ""
	}
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return strings.TrimSpace(d.Name)
}

// FileCount is the number of content entries the document describes, scaffold excluded.
func (d *Document) FileCount() int {
	if d == nil {
		return 0
	}
	n := len(d.Layouts) + len(d.Includes) + len(d.Posts) + len(d.Pages)
	for _, items := range d.Collections {
		n += len(items)
	}
	if d.Config != nil {
		n++
	}
	return n
}

// StringPtr is a helper for building Assets in code.
func StringPtr(s string) *string { return &s }
