// Package value provides the canonical in-memory representation shared by every
// parser and renderer.
//
// A Value is one of Null, String, Number, Bool, List or *Map. The interface is
// sealed: only this package can add variants. All other internal packages
// import value; value imports nothing internal.
//
// Key design constraints:
//   - Map keys are unique and keep insertion order (Set on an existing key
//     replaces the value in place)
//   - Numbers are stored as decimal literals, never float64
//   - Scalars are never coerced; a numeric-looking String stays a String
//   - Sorting never mutates a List or Map; callers build new slices
package value
