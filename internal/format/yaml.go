package format

import (
	"bytes"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/structsort/internal/value"
)

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func parseYAML(raw string) (value.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(dedent(raw)))

	var docs []value.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
				line, _ = strconv.Atoi(m[1])
			}
			return nil, malformed(YAML, line, 0, strings.TrimPrefix(err.Error(), "yaml: "), err)
		}
		docs = append(docs, fromYAMLNode(&node))
	}

	switch len(docs) {
	case 0:
		return nil, unrecognized(YAML, 0, "no YAML document")
	case 1:
		return docs[0], nil
	default:
		return value.List(docs), nil
	}
}

func fromYAMLNode(n *yaml.Node) value.Value {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return value.Null{}
		}
		return fromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		list := make(value.List, 0, len(n.Content))
		for _, c := range n.Content {
			list = append(list, fromYAMLNode(c))
		}
		return list
	case yaml.MappingNode:
		return fromYAMLMapping(n)
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return value.Null{}
	}
}

func fromYAMLMapping(n *yaml.Node) *value.Map {
	m := value.NewMap()
	var merged []*value.Map
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merged = append(merged, mergeSources(v)...)
			continue
		}
		m.Set(yamlKey(k), fromYAMLNode(v))
	}
	// Explicit keys take precedence over merged ones.
	for _, src := range merged {
		for _, e := range src.Entries() {
			if !m.Has(e.Key) {
				m.Set(e.Key, e.Value)
			}
		}
	}
	return m
}

func mergeSources(n *yaml.Node) []*value.Map {
	var out []*value.Map
	switch v := fromYAMLNode(n).(type) {
	case *value.Map:
		out = append(out, v)
	case value.List:
		for _, elem := range v {
			if m, ok := elem.(*value.Map); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func yamlKey(k *yaml.Node) string {
	if k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind == yaml.ScalarNode {
		return k.Value
	}
	return value.Text(fromYAMLNode(k))
}

func fromYAMLScalar(n *yaml.Node) value.Value {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.String(n.Value)
		}
		return value.Bool(b)
	case "!!int":
		if num, err := value.NewNumber(strings.ReplaceAll(n.Value, "_", "")); err == nil {
			return num
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return value.String(n.Value)
		}
		return value.NumberFromInt(i)
	case "!!float":
		if num, err := value.NewNumber(n.Value); err == nil {
			return num
		}
		var f float64
		if err := n.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return value.String(n.Value)
		}
		num, err := value.NewNumber(strconv.FormatFloat(f, 'g', -1, 64))
		if err != nil {
			return value.String(n.Value)
		}
		return num
	default:
		return value.String(n.Value)
	}
}

func renderYAML(records []value.Value) (string, error) {
	root := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(records) == 0 {
		root.Style = yaml.FlowStyle
	}
	for _, rec := range records {
		root.Content = append(root.Content, toYAMLNode(rec))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", &RenderInternalError{Format: YAML, Err: err}
	}
	if err := enc.Close(); err != nil {
		return "", &RenderInternalError{Format: YAML, Err: err}
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func toYAMLNode(v value.Value) *yaml.Node {
	switch v := v.(type) {
	case value.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	case value.Number:
		lit := v.String()
		tag := "!!int"
		if strings.ContainsAny(lit, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: lit}
	case value.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(v))}
	case value.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(v) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, elem := range v {
			n.Content = append(n.Content, toYAMLNode(elem))
		}
		return n
	case *value.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if v.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, e := range v.Entries() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				toYAMLNode(e.Value))
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
