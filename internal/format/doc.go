// Package format parses and renders the supported structure types.
//
// Every structure type has one parser (raw text -> value.Value) and one
// renderer (records -> text). Parsers are best-effort, not grammar-complete,
// and report failures as *ParseError rather than panicking. Renderers are
// total: missing or extra fields degrade gracefully.
//
// CSV and Markdown tables share a single tabular algorithm for header
// derivation; they differ only in row syntax.
package format
