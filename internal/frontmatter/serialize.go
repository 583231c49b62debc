package frontmatter

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SerializeYAML renders fields as YAML without delimiters. Keys named in
// leading come first in that order; the rest follow sorted, recursively for
// nested maps. An empty map renders as nothing.
func SerializeYAML(fields map[string]any, newline string, leading ...string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	if newline == "" {
		newline = "\n"
	}

	node, err := mappingNode(fields, leading)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if newline != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(newline))
	}
	return out, nil
}

func mappingNode(m map[string]any, leading []string) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		if !slices.Contains(leading, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	ordered := make([]string, 0, len(m))
	for _, k := range leading {
		if _, ok := m[k]; ok {
			ordered = append(ordered, k)
		}
	}
	ordered = append(ordered, keys...)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range ordered {
		val, err := valueNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("front matter key %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func valueNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case string:
		return scalar("!!str", vv), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(vv)), nil
	case int:
		return scalar("!!int", strconv.Itoa(vv)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(vv, 10)), nil
	case float64:
		return scalar("!!float", strconv.FormatFloat(vv, 'g', -1, 64)), nil
	case time.Time:
		// Jekyll's own post date format, which YAML reads back as a plain string.
		return scalar("!!str", vv.Format("2006-01-02 15:04:05 -0700")), nil
	case map[string]any:
		return mappingNode(vv, nil)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, scalar("!!str", item))
		}
		return seq, nil
	default:
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return &node, nil
	}
}
