// Package manifest loads batch manifests: YAML files listing the inputs a
// single batch run should process.
//
// A manifest is checked twice. The embedded CUE schema rejects unknown
// fields and out-of-range enums with file positions, then a strict YAML
// decode fills the Go types.
package manifest

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
)

//go:embed schema.cue
var schemaCUE string

// Settings are the request fields an item may set or inherit.
type Settings struct {
	StructureType string `yaml:"structure_type,omitempty"`
	SortOrder     string `yaml:"sort_order,omitempty"`
	SortKey       string `yaml:"sort_key,omitempty"`
	OutputType    string `yaml:"output_type,omitempty"`
	Reverse       *bool  `yaml:"reverse,omitempty"`
}

// Item is one input of the batch. Exactly one of Input and File is set.
type Item struct {
	Settings `yaml:",inline"`

	// Name labels the item in output. Defaults to item-N.
	Name string `yaml:"name,omitempty"`

	// Input is the raw text to process.
	Input *string `yaml:"input,omitempty"`

	// File is a path to the raw text, relative to the manifest.
	File string `yaml:"file,omitempty"`
}

// Manifest is a parsed batch manifest.
type Manifest struct {
	Defaults Settings `yaml:"defaults,omitempty"`
	Items    []Item   `yaml:"items"`

	// Path is where the manifest was loaded from, if anywhere.
	Path string `yaml:"-"`
}

// Error reports an invalid manifest. Line is 0 when unknown.
type Error struct {
	Path    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse validates data against the manifest schema and decodes it. name is
// used in error messages.
func Parse(name string, data []byte) (*Manifest, error) {
	if err := validate(name, data); err != nil {
		return nil, err
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, &Error{Path: name, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}

	for i, item := range m.Items {
		if (item.Input == nil) == (item.File == "") {
			return nil, &Error{Path: name, Message: fmt.Sprintf("items[%d]: exactly one of input and file is required", i)}
		}
	}
	return &m, nil
}

func validate(name string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("manifest schema: %w", err)
	}

	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return &Error{Path: name, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return cueError(name, err)
	}

	v := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return cueError(name, err)
	}
	return nil
}

// cueError keeps the first error and the first position inside the
// manifest itself.
func cueError(name string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: name, Message: err.Error()}
	}
	first := errs[0]
	out := &Error{Path: name, Message: strings.TrimSpace(first.Error())}
	for _, pos := range cueerrors.Positions(first) {
		if pos.Filename() == name {
			out.Line = pos.Line()
			break
		}
	}
	return out
}

// Label returns the item's display name.
func (it Item) Label(i int) string {
	if it.Name != "" {
		return it.Name
	}
	return fmt.Sprintf("item-%d", i+1)
}

// Requests resolves every item against the defaults. Relative file paths
// are read from baseDir. An item with no structure type takes it from its
// file extension; one with no sort order sorts ascending.
func (m *Manifest) Requests(baseDir string) ([]engine.Request, error) {
	reqs := make([]engine.Request, len(m.Items))
	for i, item := range m.Items {
		s := merge(m.Defaults, item.Settings)

		var input string
		switch {
		case item.Input != nil:
			input = *item.Input
		default:
			path := item.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", item.Label(i), err)
			}
			input = string(data)
			if s.StructureType == "" {
				s.StructureType = string(format.TypeForPath(path))
			}
		}
		if s.StructureType == "" {
			return nil, fmt.Errorf("%s: structure_type is required", item.Label(i))
		}
		if s.SortOrder == "" {
			s.SortOrder = string(sorter.OrderAscending)
		}

		reqs[i] = engine.Request{
			Input:         input,
			StructureType: format.StructureType(s.StructureType),
			SortOrder:     sorter.Order(s.SortOrder),
			SortKey:       s.SortKey,
			OutputType:    format.StructureType(s.OutputType),
			Reverse:       s.Reverse != nil && *s.Reverse,
		}
	}
	return reqs, nil
}

func merge(defaults, item Settings) Settings {
	out := defaults
	if item.StructureType != "" {
		out.StructureType = item.StructureType
	}
	if item.SortOrder != "" {
		out.SortOrder = item.SortOrder
	}
	if item.SortKey != "" {
		out.SortKey = item.SortKey
	}
	if item.OutputType != "" {
		out.OutputType = item.OutputType
	}
	if item.Reverse != nil {
		out.Reverse = item.Reverse
	}
	return out
}
