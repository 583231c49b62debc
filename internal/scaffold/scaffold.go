// Package scaffold renders the boilerplate files every generated Jekyll site carries.
package scaffold

import (
	"fmt"
	"strings"
)

const (
	DefaultTitle       = "Jekyll Site"
	DefaultDescription = "A static site generated with jekyll-studio."

	GemfileName   = "Gemfile"
	GitIgnoreName = ".gitignore"
	ReadmeName    = "README.md"
)

const gemfile = `source "https://rubygems.org"

gem "jekyll", "~> 4.3"

group :jekyll_plugins do
  gem "jekyll-feed"
  gem "jekyll-seo-tag"
  gem "jekyll-sitemap"
end
`

var ignored = []string{
	"_site/",
	".sass-cache/",
	".jekyll-cache/",
	".jekyll-metadata",
	"vendor/",
	".bundle/",
	".env",
}

// Gemfile declares Jekyll and the plugin set generated sites rely on.
func Gemfile() string { return gemfile }

// GitIgnore lists build artifacts and local environment files.
func GitIgnore() string {
	return strings.Join(ignored, "\n") + "\n"
}

// Readme embeds title and description above the quick-start steps.
// Blank values fall back to DefaultTitle and DefaultDescription.
func Readme(title, description string) string {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", title, description)
	b.WriteString("## Getting started\n\n")
	b.WriteString("1. Install dependencies: `bundle install`\n")
	b.WriteString("2. Start the development server: `bundle exec jekyll serve`\n")
	b.WriteString("3. Open http://localhost:4000 in your browser\n")
	return b.String()
}

// Files returns the scaffold keyed by root-relative filename.
func Files(title, description string) map[string]string {
	return map[string]string{
		GemfileName:   Gemfile(),
		GitIgnoreName: GitIgnore(),
		ReadmeName:    Readme(title, description),
	}
}
