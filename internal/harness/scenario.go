package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Request is processed once.
	Request RequestSpec `yaml:"request"`

	// Engine overrides engine settings for this scenario.
	Engine EngineSpec `yaml:"engine,omitempty"`

	// Fallback, when present, wires an extractor that answers every prompt
	// with a canned reply.
	Fallback *FallbackSpec `yaml:"fallback,omitempty"`

	// Expect validates the result envelope.
	Expect ExpectClause `yaml:"expect"`

	// Assertions validate the sorted records and rendered output.
	// Supported types: output_contains, output_order, field_order
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RequestSpec mirrors engine.Request.
type RequestSpec struct {
	Input         string `yaml:"input"`
	StructureType string `yaml:"structure_type"`
	SortOrder     string `yaml:"sort_order"`
	SortKey       string `yaml:"sort_key,omitempty"`
	OutputType    string `yaml:"output_type,omitempty"`
	Reverse       bool   `yaml:"reverse,omitempty"`
}

// EngineSpec holds the engine options a scenario may change.
type EngineSpec struct {
	MaxItems   int   `yaml:"max_items,omitempty"`
	Sorting    *bool `yaml:"sorting,omitempty"`
	Formatting *bool `yaml:"formatting,omitempty"`
}

// FallbackSpec is the canned model behavior.
type FallbackSpec struct {
	// Reply is returned for every prompt.
	Reply string `yaml:"reply,omitempty"`

	// Error, when set, makes the model call fail with this message.
	Error string `yaml:"error,omitempty"`
}

// ExpectClause specifies the expected result. Unset fields are not checked.
type ExpectClause struct {
	Success           *bool   `yaml:"success,omitempty"`
	ErrorCode         string  `yaml:"error_code,omitempty"`
	TotalItems        *int    `yaml:"total_items,omitempty"`
	MissingKeyRecords *int    `yaml:"missing_key_records,omitempty"`
	UsedFallback      *bool   `yaml:"used_fallback,omitempty"`
	FormattedOutput   *string `yaml:"formatted_output,omitempty"`

	// SortedContent is the expected record sequence as JSON text.
	SortedContent string `yaml:"sorted_content,omitempty"`
}

// Assertion validates the sorted records or the rendered output.
type Assertion struct {
	// Type specifies the assertion type:
	// - "output_contains": formatted output contains Value
	// - "output_order": every entry of Values appears in the output, in order
	// - "field_order": Field of each sorted record equals Values, in order
	Type string `yaml:"type"`

	Value  string   `yaml:"value,omitempty"`
	Values []string `yaml:"values,omitempty"`
	Field  string   `yaml:"field,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertOutputOrder    = "output_order"
	AssertFieldOrder     = "field_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Request.StructureType == "" {
		return fmt.Errorf("request.structure_type is required")
	}

	if s.Request.SortOrder == "" {
		return fmt.Errorf("request.sort_order is required")
	}

	if s.Fallback != nil && s.Fallback.Reply == "" && s.Fallback.Error == "" {
		return fmt.Errorf("fallback needs a reply or an error")
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertOutputContains:
			if a.Value == "" {
				return fmt.Errorf("assertion %d: output_contains requires value", i)
			}
		case AssertOutputOrder:
			if len(a.Values) < 2 {
				return fmt.Errorf("assertion %d: output_order requires at least 2 values", i)
			}
		case AssertFieldOrder:
			if a.Field == "" || len(a.Values) == 0 {
				return fmt.Errorf("assertion %d: field_order requires field and values", i)
			}
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}

	return nil
}
