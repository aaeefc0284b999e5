package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/structsort/internal/value"
)

func decode(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := value.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"list", `[1, "a", {"x": 1}]`, []string{`1`, `"a"`, `{"x":1}`}},
		{"wrapped list", `{"users": [{"id": 2}, {"id": 1}]}`, []string{`{"id":2}`, `{"id":1}`}},
		{"nested wrapper", `{"root": {"_children": [{"a": 1}, {"a": 2}]}}`, []string{`{"a":1}`, `{"a":2}`}},
		{"spliced items", `[{"items": [1, 2]}, {"items": [{"values": [3]}]}]`, []string{`1`, `2`, `3`}},
		{"map of maps", `{"a": {"v": 1}, "b": {"v": 2}}`, []string{`{"v":1}`, `{"v":2}`}},
		{"plain map", `{"a": 1, "b": {"v": 2}}`, []string{`{"a":1,"b":{"v":2}}`}},
		{"single scalar entry", `{"a": 1}`, []string{`{"a":1}`}},
		{"scalar", `"hello"`, []string{`"hello"`}},
		{"empty list", `[]`, []string{}},
		{"wrapped empty list", `{"items": []}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Flatten(decode(t, tt.input))
			got := make([]string, len(records))
			for i, r := range records {
				b, err := value.Marshal(r)
				require.NoError(t, err)
				got[i] = string(b)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlattenPreservesLeaves(t *testing.T) {
	inputs := []string{
		`[1, "a", {"x": 1, "y": [true, null]}]`,
		`{"users": [{"id": 2, "tags": ["a", "b"]}, {"id": 1}]}`,
		`[{"items": [1, 2]}, 3]`,
		`{"a": {"v": 1}, "b": {"v": 2, "w": {"z": 3}}}`,
		`{"a": 1, "b": [1, 2, 3]}`,
		`{"items": []}`,
		`null`,
	}
	for _, in := range inputs {
		v := decode(t, in)
		total := 0
		for _, r := range Flatten(v) {
			total += Leaves(r)
		}
		assert.Equal(t, Leaves(v), total, in)
	}
}

func TestFlattenDoesNotMutateInput(t *testing.T) {
	v := decode(t, `{"users": [{"id": 2}, {"id": 1}]}`)
	before, err := value.Marshal(v)
	require.NoError(t, err)

	records := Flatten(v)
	records[0], records[1] = records[1], records[0]

	after, err := value.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
