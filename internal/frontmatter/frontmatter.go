// Package frontmatter reads and writes the YAML front matter block Jekyll
// expects at the top of posts and pages.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Document is a Markdown/HTML file split at its front matter block.
// Raw holds the YAML between the delimiters; Had reports whether a block was
// present at all (an empty block counts).
type Document struct {
	Raw     []byte
	Body    []byte
	Had     bool
	Newline string
}

// Split separates the `---` delimited front matter from the body.
// Content without a leading delimiter is returned whole as Body.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return doc, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Document{Raw: []byte{}, Body: content[start+len(open):], Had: true, Newline: nl}, nil
	}

	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// A closing delimiter at end of file has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+delimiter)) {
			end := len(content) - len(delimiter)
			return Document{Raw: content[start:end], Body: []byte{}, Had: true, Newline: nl}, nil
		}
		return Document{}, ErrMissingClosingDelimiter
	}

	return Document{
		Raw:     content[start : start+idx+len(nl)],
		Body:    content[start+idx+len(closing):],
		Had:     true,
		Newline: nl,
	}, nil
}

// Bytes reassembles the document. Without a block, Body is returned as-is.
func (d Document) Bytes() []byte {
	if !d.Had {
		return d.Body
	}
	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	out := make([]byte, 0, 2*(len(delimiter)+len(nl))+len(d.Raw)+len(d.Body))
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, d.Raw...)
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, d.Body...)
	return out
}

// Fields parses Raw into a map. An empty block yields an empty map.
func (d Document) Fields() (map[string]any, error) {
	return ParseYAML(d.Raw)
}

// ParseYAML parses raw front matter (without delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Ensure returns content unchanged when it already carries front matter and
// otherwise prepends a block built from fields, ordered by leading first.
// The boolean reports whether a block was added.
func Ensure(content []byte, fields map[string]any, leading ...string) ([]byte, bool, error) {
	doc, err := Split(content)
	if err != nil {
		return nil, false, err
	}
	if doc.Had {
		return content, false, nil
	}
	raw, err := SerializeYAML(fields, doc.Newline, leading...)
	if err != nil {
		return nil, false, err
	}
	body := bytes.TrimLeft(content, "\r\n")
	sep := []byte(doc.Newline)
	if len(body) == 0 {
		sep = nil
	}
	out := Document{Raw: raw, Body: append(sep, body...), Had: true, Newline: doc.Newline}
	return out.Bytes(), true, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
