package post

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/jekyll-studio/internal/frontmatter"
)

// DiscoverTitle finds a title inside generated content: the front matter
// `title` field when present, otherwise the text of the first heading.
func DiscoverTitle(content []byte) string {
	doc, err := frontmatter.Split(content)
	if err != nil {
		return ""
	}
	if doc.Had {
		if fields, err := doc.Fields(); err == nil {
			if t, ok := fields["title"].(string); ok && strings.TrimSpace(t) != "" {
				return strings.TrimSpace(t)
			}
		}
	}
	return firstHeading(doc.Body)
}

func firstHeading(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			title = strings.TrimSpace(inlineText(h, body))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func inlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
