package format

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

// edgeSeparators are tried in order; the first one present decides how the
// whole line is split.
var edgeSeparators = []string{"->", "→", "=>", "--", "—", " - ", "-"}

var (
	dotHeaderRe   = regexp.MustCompile(`^(?:strict\s+)?(?:di)?graph(?:\s+[^\s{]+)?\s*\{$`)
	dotAttrStmtRe = regexp.MustCompile(`^(?:graph|node|edge)\s*\[.*\]$`)
	dotAssignRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*=\s*(?:"[^"]*"|[^\s>-]+)$`)
	dotIDRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	dotAttrRe     = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(?:"((?:[^"\\]|\\.)*)"|([^,;\s\]]+))`)
)

func parseGraph(raw string) (value.Value, error) {
	out := value.List{}
	for i, line := range dedentLines(raw) {
		text := strings.TrimSpace(line)
		if skipGraphLine(text) {
			continue
		}
		text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
		if dotAssignRe.MatchString(text) {
			continue
		}

		var attrs []value.Entry
		if open := indexOutsideQuotes(text, "["); open > 0 && strings.HasSuffix(text, "]") {
			attrs = parseDOTAttrs(text[open+1 : len(text)-1])
			text = strings.TrimSpace(text[:open])
		}

		ids, err := splitEdgeChain(text)
		if err != nil {
			return nil, malformed(Graph, i+1, 0, err.Error(), nil)
		}

		if len(ids) == 1 {
			if len(attrs) == 0 && !isQuoted(text) && strings.ContainsAny(text, " \t") {
				return nil, unrecognized(Graph, i+1, "expected an edge such as A -> B")
			}
			rec := value.NewMap(value.E("node", value.String(ids[0])))
			addAttrs(rec, attrs)
			out = append(out, rec)
			continue
		}
		for j := 0; j+1 < len(ids); j++ {
			rec := value.NewMap(
				value.E("from", value.String(ids[j])),
				value.E("to", value.String(ids[j+1])),
			)
			addAttrs(rec, attrs)
			out = append(out, rec)
		}
	}
	return out, nil
}

func skipGraphLine(text string) bool {
	switch {
	case text == "", text == "{", text == "}", text == "};":
		return true
	case strings.HasPrefix(text, "//"), strings.HasPrefix(text, "#"):
		return true
	case dotHeaderRe.MatchString(text), dotAttrStmtRe.MatchString(strings.TrimSuffix(text, ";")):
		return true
	}
	return false
}

func addAttrs(rec *value.Map, attrs []value.Entry) {
	for _, a := range attrs {
		if !rec.Has(a.Key) {
			rec.Set(a.Key, a.Value)
		}
	}
}

// splitEdgeChain splits "A -> B -> C" into node ids. A line without any
// separator is a single id.
func splitEdgeChain(text string) ([]string, error) {
	for _, sep := range edgeSeparators {
		idx := indexOutsideQuotes(text, sep)
		if idx < 0 || (sep == "-" && idx == 0) {
			continue
		}
		parts := splitOutsideQuotes(text, sep)
		ids := make([]string, len(parts))
		for i, p := range parts {
			id := unquoteDOT(strings.TrimSpace(p))
			if id == "" {
				return nil, fmt.Errorf("edge %q has an empty endpoint", text)
			}
			ids[i] = id
		}
		return ids, nil
	}
	return []string{unquoteDOT(text)}, nil
}

func indexOutsideQuotes(s, sub string) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && inQuote:
			i++
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], sub):
			return i
		}
	}
	return -1
}

func splitOutsideQuotes(s, sep string) []string {
	var parts []string
	for {
		idx := indexOutsideQuotes(s, sep)
		if idx < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(sep):]
	}
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func unquoteDOT(s string) string {
	if !isQuoted(s) {
		return s
	}
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
}

func parseDOTAttrs(text string) []value.Entry {
	var attrs []value.Entry
	for _, m := range dotAttrRe.FindAllStringSubmatch(text, -1) {
		v := m[3]
		if m[3] == "" {
			v = unquoteDOT(`"` + m[2] + `"`)
		}
		attrs = append(attrs, value.E(m[1], value.String(v)))
	}
	return attrs
}

func renderGraph(records []value.Value) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	for i, rec := range records {
		m, _ := rec.(*value.Map)
		from, hasFrom := m.Get("from")
		to, hasTo := m.Get("to")
		node, hasNode := m.Get("node")

		switch {
		case hasFrom && hasTo:
			fmt.Fprintf(&b, "  %s -> %s%s;\n", dotQuote(value.Text(from)), dotQuote(value.Text(to)), dotAttrs(m, "from", "to"))
		case hasNode:
			fmt.Fprintf(&b, "  %s%s;\n", dotQuote(value.Text(node)), dotAttrs(m, "node"))
		default:
			id := fmt.Sprintf("node_%d", i)
			fmt.Fprintf(&b, "  %s [label=%s];\n", id, dotQuote(displayLabel(rec)))
			conns, _ := m.Get("connections")
			if list, ok := conns.(value.List); ok {
				for _, c := range list {
					fmt.Fprintf(&b, "  %s -> %s;\n", id, dotQuote(value.Text(c)))
				}
			}
		}
	}
	b.WriteString("}")
	return b.String()
}

// dotAttrs renders every map entry not named in skip as a DOT attribute list.
func dotAttrs(m *value.Map, skip ...string) string {
	var parts []string
	for _, e := range m.Entries() {
		if slices.Contains(skip, e.Key) || !dotIDRe.MatchString(e.Key) {
			continue
		}
		parts = append(parts, e.Key+"="+dotQuote(value.Text(e.Value)))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func dotQuote(s string) string {
	s = singleLine(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
