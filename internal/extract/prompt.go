package extract

import (
	"fmt"
	"strings"

	"github.com/roach88/structsort/internal/format"
)

// instructions holds the type-specific extraction steps.
var instructions = map[format.StructureType][]string{
	format.JSON: {
		"Extract every field and value completely.",
		"Keep the original nesting of objects and arrays.",
	},
	format.XML: {
		"Extract all XML tags and attributes.",
		"Put attributes under an \"_attributes\" object and element text under \"_text\".",
	},
	format.YAML: {
		"Extract every key and value, resolving anchors and aliases.",
		"Keep the original nesting of mappings and sequences.",
	},
	format.CSV: {
		"Parse the CSV data row by row.",
		"Use the header row as field names; one object per data row.",
	},
	format.Table: {
		"Identify the table structure and its header row.",
		"Return one object per table row keyed by column name.",
	},
	format.List: {
		"Identify the list items.",
		"Return each item as {\"text\": ...}.",
	},
	format.Tree: {
		"Identify the tree structure and the depth of each node.",
		"Return nodes as {\"text\": ..., \"children\": [...]}.",
	},
	format.Graph: {
		"Identify nodes and edges.",
		"Return edges as {\"from\": ..., \"to\": ...} objects.",
	},
}

// BuildPrompt returns the extraction prompt for raw input of type t.
func BuildPrompt(raw string, t format.StructureType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract all relevant content from the following %s data and return it as structured JSON:\n\n", describe(t))
	b.WriteString(raw)
	b.WriteString("\n\nRequirements:\n")

	steps := append([]string{}, instructions[t]...)
	steps = append(steps,
		"Return a JSON object; wrap a sequence of records as {\"items\": [...]}.",
		"Make sure the output is valid JSON.",
	)
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	b.WriteString("\nReturn only the JSON result with no other explanation.\n")
	return b.String()
}

func describe(t format.StructureType) string {
	switch t {
	case format.JSON, format.XML, format.YAML, format.CSV:
		return strings.ToUpper(string(t))
	case "":
		return "structured"
	default:
		return string(t)
	}
}
