// Package sorter orders records with pluggable key-extraction strategies.
//
// A Strategy turns a record into a Key. Keys are tagged Numeric, Lexical or
// Ordinal; a single strategy always emits one tag, and keys of different
// tags order by tag precedence. Sorting is stable and direction is applied
// by inverting the comparator, never by negating keys.
package sorter
