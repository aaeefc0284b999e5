package sorter

import (
	"cmp"
	"fmt"
	"strings"
)

// KeyKind tags a Key. The declaration order is the cross-tag precedence.
type KeyKind uint8

const (
	Numeric KeyKind = iota
	Lexical
	Ordinal
)

func (k KeyKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Lexical:
		return "lexical"
	case Ordinal:
		return "ordinal"
	default:
		return fmt.Sprintf("KeyKind(%d)", uint8(k))
	}
}

// Key is a totally ordered sort key.
type Key struct {
	Kind KeyKind
	Num  float64
	Text string
	Ord  int32
}

func NumericKey(f float64) Key { return Key{Kind: Numeric, Num: f} }

func LexicalKey(s string) Key { return Key{Kind: Lexical, Text: s} }

func OrdinalKey(o int32) Key { return Key{Kind: Ordinal, Ord: o} }

// Compare orders a and b. Keys of different kinds compare by kind; NaN
// sorts before every other number.
func Compare(a, b Key) int {
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	switch a.Kind {
	case Numeric:
		return cmp.Compare(a.Num, b.Num)
	case Lexical:
		return strings.Compare(a.Text, b.Text)
	default:
		return cmp.Compare(a.Ord, b.Ord)
	}
}

func (k Key) String() string {
	switch k.Kind {
	case Numeric:
		return fmt.Sprintf("numeric(%g)", k.Num)
	case Lexical:
		return fmt.Sprintf("lexical(%q)", k.Text)
	default:
		return fmt.Sprintf("ordinal(%d)", k.Ord)
	}
}
