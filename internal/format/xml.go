package format

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/roach88/structsort/internal/value"
)

const (
	xmlHeader      = `<?xml version="1.0" encoding="UTF-8"?>`
	attributesKey  = "_attributes"
	childrenKey    = "_children"
	tagKey         = "_tag"
	textKey        = "_text"
	xmlIndentUnit  = "  "
	xmlDefaultName = "item"
)

type xmlChild struct {
	tag string
	v   value.Value
}

func parseXML(raw string) (value.Value, error) {
	text := dedent(raw)
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Entity = xml.HTMLEntity

	var (
		root    value.Value
		rootTag string
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, xmlError(dec, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				line, col := dec.InputPos()
				return nil, malformed(XML, line, col, "multiple root elements", nil)
			}
			v, err := parseXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			root, rootTag = v, t.Name.Local
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				line, _ := dec.InputPos()
				if root == nil {
					return nil, unrecognized(XML, line, "text before root element")
				}
				return nil, malformed(XML, line, 0, "text after root element", nil)
			}
		}
	}

	if root == nil {
		return nil, unrecognized(XML, 0, "no root element")
	}
	return value.NewMap(value.E(rootTag, root)), nil
}

func parseXMLElement(dec *xml.Decoder, start xml.StartElement) (value.Value, error) {
	attrs := value.NewMap()
	for _, a := range start.Attr {
		attrs.Set(a.Name.Local, value.String(a.Value))
	}

	var (
		children []xmlChild
		text     strings.Builder
	)
loop:
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, xmlError(dec, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v, err := parseXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			children = append(children, xmlChild{tag: t.Name.Local, v: v})
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			break loop
		}
	}

	body := strings.TrimSpace(text.String())
	if attrs.Len() == 0 && len(children) == 0 {
		return value.String(body), nil
	}

	m := value.NewMap()
	if attrs.Len() > 0 {
		m.Set(attributesKey, attrs)
	}
	if hasRepeatedTag(children) {
		list := make(value.List, 0, len(children))
		for _, c := range children {
			list = append(list, taggedChild(c))
		}
		m.Set(childrenKey, list)
	} else {
		for _, c := range children {
			m.Set(c.tag, c.v)
		}
	}
	if body != "" {
		m.Set(textKey, value.String(body))
	}
	return m, nil
}

func hasRepeatedTag(children []xmlChild) bool {
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		if seen[c.tag] {
			return true
		}
		seen[c.tag] = true
	}
	return false
}

// taggedChild records the element name inside the child so it survives
// being placed in the positional _children list.
func taggedChild(c xmlChild) value.Value {
	out := value.NewMap(value.E(tagKey, value.String(c.tag)))
	if cm, ok := c.v.(*value.Map); ok {
		for _, e := range cm.Entries() {
			out.Set(e.Key, e.Value)
		}
		return out
	}
	out.Set(textKey, c.v)
	return out
}

func xmlError(dec *xml.Decoder, err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return malformed(XML, se.Line, 0, se.Msg, err)
	}
	line, col := dec.InputPos()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed(XML, line, col, "unexpected end of input", err)
	}
	return malformed(XML, line, col, err.Error(), err)
}

func renderXML(records []value.Value) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("\n")
	if len(records) == 0 {
		b.WriteString("<root></root>")
		return b.String()
	}

	b.WriteString("<root>\n")
	for i, rec := range records {
		open := fmt.Sprintf(`<item id="%d">`, i)
		writeXMLValue(&b, xmlIndentUnit, open, "</item>", rec)
	}
	b.WriteString("</root>")
	return b.String()
}

// writeXMLValue writes one element. Scalars stay on a single line and maps
// expand into indented children.
func writeXMLValue(b *strings.Builder, indent, open, closing string, v value.Value) {
	m, ok := v.(*value.Map)
	if !ok || m.Len() == 0 || !hasXMLChildren(m) {
		b.WriteString(indent)
		b.WriteString(open)
		if ok {
			if t, found := m.Get(textKey); found {
				xmlEscape(b, value.Text(t))
			}
		} else {
			xmlEscape(b, value.Text(v))
		}
		b.WriteString(closing)
		b.WriteString("\n")
		return
	}

	b.WriteString(indent)
	b.WriteString(open)
	b.WriteString("\n")
	writeXMLMapBody(b, indent+xmlIndentUnit, m)
	b.WriteString(indent)
	b.WriteString(closing)
	b.WriteString("\n")
}

func hasXMLChildren(m *value.Map) bool {
	for _, k := range m.Keys() {
		if k != tagKey && k != textKey {
			return true
		}
	}
	return false
}

func writeXMLMapBody(b *strings.Builder, indent string, m *value.Map) {
	if t, ok := m.Get(textKey); ok {
		b.WriteString(indent)
		xmlEscape(b, value.Text(t))
		b.WriteString("\n")
	}

	for _, e := range m.Entries() {
		switch e.Key {
		case tagKey, textKey:
			continue
		case attributesKey:
			attrs, ok := e.Value.(*value.Map)
			if !ok {
				writeXMLField(b, indent, e.Key, e.Value)
				continue
			}
			// Fields win over attributes of the same name.
			for _, a := range attrs.Entries() {
				if !m.Has(a.Key) {
					writeXMLField(b, indent, a.Key, a.Value)
				}
			}
		case childrenKey:
			children, ok := e.Value.(value.List)
			if !ok {
				writeXMLField(b, indent, e.Key, e.Value)
				continue
			}
			for _, c := range children {
				name := xmlDefaultName
				if cm, ok := c.(*value.Map); ok {
					if t, found := cm.Get(tagKey); found {
						name = value.Text(t)
					}
				}
				writeXMLField(b, indent, name, c)
			}
		default:
			writeXMLField(b, indent, e.Key, e.Value)
		}
	}
}

func writeXMLField(b *strings.Builder, indent, key string, v value.Value) {
	name := xmlName(key)
	if list, ok := v.(value.List); ok {
		if len(list) == 0 {
			writeXMLValue(b, indent, "<"+name+">", "</"+name+">", value.String(""))
			return
		}
		for _, elem := range list {
			writeXMLValue(b, indent, "<"+name+">", "</"+name+">", elem)
		}
		return
	}
	writeXMLValue(b, indent, "<"+name+">", "</"+name+">", v)
}

// xmlName maps an arbitrary key onto a valid XML element name.
func xmlName(key string) string {
	if key == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range key {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
		case i == 0 && unicode.IsDigit(r):
			b.WriteRune('_')
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func xmlEscape(b *strings.Builder, s string) {
	// EscapeText only fails when the writer does; strings.Builder never does.
	_ = xml.EscapeText(b, []byte(s))
}
