// Package naming derives filesystem-safe names for the files of a Jekyll site.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

// disallowed runs after every Unicode space has been mapped to ' '.
var disallowed = regexp.MustCompile(`[^a-z0-9 -]`)

// ExtensionPolicy pairs the extensions a name may already carry with the one
// appended when it carries none of them.
type ExtensionPolicy struct {
	Allowed []string
	Default string
}

var (
	LayoutExtensions         = ExtensionPolicy{Allowed: []string{".html"}, Default: ".html"}
	PageExtensions           = ExtensionPolicy{Allowed: []string{".html", ".md"}, Default: ".html"}
	CollectionItemExtensions = ExtensionPolicy{Allowed: []string{".md", ".html"}, Default: ".md"}
)

// Slugify lowercases text, drops everything outside [a-z0-9], whitespace and
// hyphens, and joins the remaining words with single hyphens. Whitespace is
// anything unicode.IsSpace accepts, so NBSP and ideographic spaces separate
// words too. An empty result means the text carried nothing usable.
func Slugify(text string) string {
	// A Caser is stateful and must not be shared between goroutines.
	s := cases.Lower(language.Und).String(text)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = disallowed.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "-")
}

// WithExtension returns name unchanged when it already ends with one of the
// allowed extensions (case-sensitive) and appends def otherwise.
func WithExtension(name string, allowed []string, def string) string {
	for _, ext := range allowed {
		if strings.HasSuffix(name, ext) {
			return name
		}
	}
	return name + def
}

// PostFilename is the single naming rule for posts: "{date}-{slug}.md".
func PostFilename(date, title string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", serrors.InvalidEntry("post", title, "title is empty after normalization")
	}
	if strings.TrimSpace(date) == "" {
		return "", serrors.InvalidEntry("post", title, "date is empty")
	}
	if strings.ContainsAny(date, `/\`) {
		return "", serrors.InvalidEntry("post", title, "date contains a path separator")
	}
	return date + "-" + slug + ".md", nil
}

// EntryFilename validates a layout, include, page or collection item name and
// applies policy. Names may use forward slashes for subdirectories but must
// stay inside their category directory.
func EntryFilename(kind, name string, policy ExtensionPolicy) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", serrors.InvalidEntry(kind, name, "name is empty")
	}
	if filepath.IsAbs(trimmed) || strings.HasPrefix(trimmed, "/") {
		return "", serrors.InvalidEntry(kind, name, "name is an absolute path")
	}
	clean := filepath.ToSlash(filepath.Clean(trimmed))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", serrors.InvalidEntry(kind, name, "name escapes its directory")
	}
	return WithExtension(clean, policy.Allowed, policy.Default), nil
}

// CollectionDir maps a collection identifier to its directory name ("_<key>").
// Identifiers are used as given but must be a single safe path element.
func CollectionDir(key string) (string, error) {
	if err := PathElement("collection", key); err != nil {
		return "", err
	}
	return "_" + key, nil
}

// PathElement reports an InvalidEntry error unless name is one non-empty path
// element that cannot climb out of its parent directory.
func PathElement(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return serrors.InvalidEntry(kind, name, "name is empty")
	case name == "." || name == "..":
		return serrors.InvalidEntry(kind, name, "name is a relative path element")
	case strings.ContainsAny(name, `/\`):
		return serrors.InvalidEntry(kind, name, "name contains a path separator")
	}
	return nil
}
