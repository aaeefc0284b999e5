package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = MustNumber("42")
	var _ Value = Bool(true)
	var _ Value = List{String("a"), NumberFromInt(1)}
	var _ Value = NewMap(E("key", String("value")))
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap(
		E("zebra", String("z")),
		E("apple", String("a")),
		E("mango", String("m")),
	)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
}

func TestMapSetLastWriteWinsKeepsPosition(t *testing.T) {
	m := NewMap(E("a", NumberFromInt(1)), E("b", NumberFromInt(2)))
	m.Set("a", NumberFromInt(3))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	got, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", Text(got))
	assert.Equal(t, 2, m.Len())
}

func TestMapDuplicateKeysInConstructor(t *testing.T) {
	m := NewMap(E("k", String("first")), E("other", Null{}), E("k", String("second")))

	assert.Equal(t, 2, m.Len())
	got, _ := m.Get("k")
	assert.Equal(t, String("second"), got)
}

func TestMapSetNilBecomesNull(t *testing.T) {
	m := NewMap()
	m.Set("x", nil)
	got, ok := m.Get("x")
	require.True(t, ok)
	assert.Equal(t, Null{}, got)
}

func TestNilMapIsEmpty(t *testing.T) {
	var m *Map
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewMap(E("n", NumberFromInt(1)))
	orig := NewMap(E("inner", inner), E("list", List{String("a")}))

	cp := orig.Clone()
	inner.Set("n", NumberFromInt(2))

	got, _ := cp.Get("inner")
	n, _ := got.(*Map).Get("n")
	assert.Equal(t, "1", Text(n))
}

func TestNewNumber(t *testing.T) {
	tests := []struct {
		lit     string
		wantErr bool
	}{
		{"0", false},
		{"-12", false},
		{"3.14159", false},
		{"1e10", false},
		{"12345678901234567890123", false},
		{"abc", true},
		{"NaN", true},
		{"Infinity", true},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			n, err := NewNumber(tt.lit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lit, n.String())
		})
	}
}

func TestNumberCmpIsExact(t *testing.T) {
	a := MustNumber("9007199254740993")
	b := MustNumber("9007199254740992")

	// float64 cannot distinguish these; the decimal comparison can
	assert.Equal(t, a.Float64(), b.Float64())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, 0, MustNumber("1.50").Cmp(MustNumber("1.5")))
}

func TestNumberFloat64OutOfRange(t *testing.T) {
	assert.Equal(t, 2.5, MustNumber("2.5").Float64())
	assert.True(t, math.IsInf(MustNumber("1e400").Float64(), 1))
	assert.True(t, math.IsInf(MustNumber("-1e400").Float64(), -1))
	assert.Zero(t, MustNumber("1e-400").Float64())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNull, KindOf(Null{}))
	assert.Equal(t, KindNull, KindOf(nil))
	assert.Equal(t, KindString, KindOf(String("x")))
	assert.Equal(t, KindNumber, KindOf(NumberFromInt(1)))
	assert.Equal(t, KindBool, KindOf(Bool(false)))
	assert.Equal(t, KindList, KindOf(List{}))
	assert.Equal(t, KindMap, KindOf(NewMap()))

	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "string", KindString.String())
}

func TestText(t *testing.T) {
	assert.Equal(t, "hello", Text(String("hello")))
	assert.Equal(t, "1.50", Text(MustNumber("1.50")))
	assert.Equal(t, "true", Text(Bool(true)))
	assert.Equal(t, "", Text(Null{}))
	assert.Equal(t, `["a",1]`, Text(List{String("a"), NumberFromInt(1)}))
	assert.Equal(t, `{"b":1,"a":2}`, Text(NewMap(E("b", NumberFromInt(1)), E("a", NumberFromInt(2)))))
}

func TestEqual(t *testing.T) {
	a := NewMap(E("x", List{MustNumber("1.0"), String("s")}))
	b := NewMap(E("x", List{MustNumber("1"), String("s")}))
	c := NewMap(E("x", List{MustNumber("2"), String("s")}))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(String("1"), NumberFromInt(1)))
	assert.True(t, Equal(Null{}, nil))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b":     1,
		"a":     "x",
		"list":  []any{true, nil, 2.5},
		"float": 3.0,
	})
	require.NoError(t, err)

	m := v.(*Map)
	assert.Equal(t, []string{"a", "b", "float", "list"}, m.Keys())
	got, _ := m.Get("list")
	assert.Equal(t, `[true,null,2.5]`, Text(got))
}

func TestFromAnyRejectsUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	assert.Error(t, err)
}

func TestToAnyRoundTrip(t *testing.T) {
	orig := NewMap(E("n", MustNumber("12.5")), E("l", List{Bool(true), Null{}}))
	back, err := FromAny(ToAny(orig))
	require.NoError(t, err)

	// Key order is lost through map[string]any; compare canonically
	a, _ := MarshalCanonical(orig)
	b, _ := MarshalCanonical(back)
	assert.Equal(t, string(a), string(b))
}
