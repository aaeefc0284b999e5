package value

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Value is a sealed interface representing canonical values.
// Only Null, String, Number, Bool, List and *Map implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an absent or JSON null value.
type Null struct{}

func (Null) value() {}

// String is a scalar string. The original text is preserved verbatim.
type String string

func (String) value() {}

// Bool is a scalar boolean.
type Bool bool

func (Bool) value() {}

// List is an ordered sequence of values.
type List []Value

func (List) value() {}

// Number is a scalar number kept as its decimal literal.
// Construct with NewNumber so the literal is known to be a finite decimal.
type Number struct {
	lit string
}

func (Number) value() {}

// NewString creates a String value.
func NewString(s string) String {
	return String(s)
}

// NewBool creates a Bool value.
func NewBool(b bool) Bool {
	return Bool(b)
}

// NewList creates a List from values.
func NewList(vals ...Value) List {
	if vals == nil {
		return List{}
	}
	return List(vals)
}

// NewNumber validates a decimal literal and wraps it as a Number.
// Infinity and NaN are rejected.
func NewNumber(lit string) (Number, error) {
	d, _, err := apd.NewFromString(lit)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	if d.Form != apd.Finite {
		return Number{}, fmt.Errorf("non-finite number %q", lit)
	}
	return Number{lit: lit}, nil
}

// MustNumber is like NewNumber but panics on error.
// Use only in tests or when the literal is known to be valid.
func MustNumber(lit string) Number {
	n, err := NewNumber(lit)
	if err != nil {
		panic(err)
	}
	return n
}

// NumberFromInt creates a Number from an int64.
func NumberFromInt(i int64) Number {
	return Number{lit: strconv.FormatInt(i, 10)}
}

// String returns the decimal literal.
func (n Number) String() string {
	if n.lit == "" {
		return "0"
	}
	return n.lit
}

// Decimal returns a freshly parsed copy of the number.
func (n Number) Decimal() *apd.Decimal {
	d, _, err := apd.NewFromString(n.String())
	if err != nil {
		// Unreachable for numbers built with NewNumber.
		return apd.New(0, 0)
	}
	return d
}

// Float64 converts the number to float64. Precision loss is possible for
// literals with more than 15-17 significant digits.
// Literals beyond the float64 range become ±Inf, or 0 when they underflow.
func (n Number) Float64() float64 {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return f
	}
	f, err = n.Decimal().Float64()
	if err != nil {
		return 0
	}
	return f
}

// Cmp compares two numbers exactly, returning -1, 0 or +1.
func (n Number) Cmp(other Number) int {
	return n.Decimal().Cmp(other.Decimal())
}

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindNumber: "number",
	KindBool:   "bool",
	KindList:   "list",
	KindMap:    "map",
}

// String returns the lower-case kind name used in type distributions.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindOf reports the variant of v. A nil interface is treated as Null.
func KindOf(v Value) Kind {
	switch v.(type) {
	case String:
		return KindString
	case Number:
		return KindNumber
	case Bool:
		return KindBool
	case List:
		return KindList
	case *Map:
		return KindMap
	default:
		return KindNull
	}
}

// IsScalar reports whether v is a String, Number or Bool.
func IsScalar(v Value) bool {
	switch v.(type) {
	case String, Number, Bool:
		return true
	}
	return false
}

// Text returns the display text of v: strings verbatim, numbers as their
// literal, booleans as true/false, null as "" and containers as compact JSON.
func Text(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Number:
		return val.String()
	case Bool:
		return strconv.FormatBool(bool(val))
	case List, *Map:
		b, err := Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// Equal reports deep equality. Numbers compare by numeric value, so 1.0 equals 1.
// Map equality is order-sensitive.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av.Cmp(bv) == 0
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, e := range av.entries {
			o := bv.entries[i]
			if e.Key != o.Key || !Equal(e.Value, o.Value) {
				return false
			}
		}
		return true
	default:
		return KindOf(b) == KindNull
	}
}
