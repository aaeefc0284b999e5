package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

// StructureType identifies a textual serialization syntax.
type StructureType string

const (
	JSON  StructureType = "json"
	XML   StructureType = "xml"
	YAML  StructureType = "yaml"
	CSV   StructureType = "csv"
	Table StructureType = "table"
	List  StructureType = "list"
	Tree  StructureType = "tree"
	Graph StructureType = "graph"
)

var structureTypes = []StructureType{JSON, XML, YAML, CSV, Table, List, Tree, Graph}

// StructureTypes returns every supported structure type in display order.
func StructureTypes() []StructureType {
	out := make([]StructureType, len(structureTypes))
	copy(out, structureTypes)
	return out
}

// ParseStructureType converts a case-insensitive name into a StructureType.
func ParseStructureType(s string) (StructureType, error) {
	t := StructureType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown structure type %q: must be one of %v", s, structureTypes)
	}
	return t, nil
}

// Valid reports whether t is a supported structure type.
func (t StructureType) Valid() bool {
	for _, st := range structureTypes {
		if st == t {
			return true
		}
	}
	return false
}

func (t StructureType) String() string {
	return string(t)
}

// TypeForPath infers a structure type from a file extension. Unknown
// extensions yield "".
func TypeForPath(path string) StructureType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".xml":
		return XML
	case ".yaml", ".yml":
		return YAML
	case ".csv":
		return CSV
	case ".md":
		return Table
	case ".dot", ".gv":
		return Graph
	default:
		return ""
	}
}

// Document is a parsed input together with parser-side metadata that the
// value alone cannot carry.
type Document struct {
	Value value.Value

	// Columns is the declared header of tabular inputs (CSV, Table), in order.
	// It lets an input with an empty body still render its header.
	Columns []string
}

// Parse parses raw text of the given structure type into a canonical value.
func Parse(raw string, t StructureType) (value.Value, error) {
	doc, err := ParseDocument(raw, t)
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

// ParseDocument is like Parse but also returns parser metadata.
// Blank input yields *EmptyInputError before any parser runs.
func ParseDocument(raw string, t StructureType) (Document, error) {
	if strings.TrimSpace(raw) == "" {
		return Document{}, &EmptyInputError{Format: t}
	}

	var (
		v   value.Value
		err error
	)
	switch t {
	case JSON:
		v, err = parseJSON(raw)
	case XML:
		v, err = parseXML(raw)
	case YAML:
		v, err = parseYAML(raw)
	case CSV:
		return parseCSV(raw)
	case Table:
		return parseTable(raw)
	case List:
		v, err = parseList(raw)
	case Tree:
		v, err = parseTree(raw)
	case Graph:
		v, err = parseGraph(raw)
	default:
		return Document{}, &ParseError{
			Format:  t,
			Kind:    Unrecognized,
			Message: fmt.Sprintf("unsupported structure type %q", string(t)),
		}
	}
	if err != nil {
		return Document{}, err
	}
	return Document{Value: v}, nil
}

// RenderOption customizes rendering.
type RenderOption func(*renderConfig)

type renderConfig struct {
	columns []string
}

// WithColumns seeds the tabular header. Columns come first in the given
// order; keys found only in records follow in first-seen order.
func WithColumns(cols []string) RenderOption {
	return func(c *renderConfig) {
		c.columns = cols
	}
}

// Render writes records in the syntax of t.
// The only possible error is *RenderInternalError, which signals a bug
// rather than bad input.
func Render(records []value.Value, t StructureType, opts ...RenderOption) (string, error) {
	cfg := renderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch t {
	case JSON:
		return renderJSON(records)
	case XML:
		return renderXML(records), nil
	case YAML:
		return renderYAML(records)
	case CSV:
		return renderCSV(records, cfg.columns)
	case Table:
		return renderTable(records, cfg.columns), nil
	case List:
		return renderList(records), nil
	case Tree:
		return renderTree(records), nil
	case Graph:
		return renderGraph(records), nil
	default:
		return "", &RenderInternalError{Format: t, Err: fmt.Errorf("unsupported structure type %q", string(t))}
	}
}
