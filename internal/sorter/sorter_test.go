package sorter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/structsort/internal/value"
)

func rec(kv ...any) *value.Map {
	m := value.NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		var v value.Value
		switch x := kv[i+1].(type) {
		case int:
			v = value.NumberFromInt(int64(x))
		case string:
			v = value.String(x)
		case value.Value:
			v = x
		}
		m.Set(kv[i].(string), v)
	}
	return m
}

func field(t *testing.T, records []value.Value, name string) []string {
	t.Helper()
	out := make([]string, len(records))
	for i, r := range records {
		v, _ := Lookup(r, name)
		out[i] = value.Text(v)
	}
	return out
}

func TestCompareTagPrecedence(t *testing.T) {
	assert.Negative(t, Compare(NumericKey(100), LexicalKey("")))
	assert.Negative(t, Compare(LexicalKey("zzz"), OrdinalKey(0)))
	assert.Positive(t, Compare(OrdinalKey(0), NumericKey(1)))
	assert.Zero(t, Compare(LexicalKey("a"), LexicalKey("a")))
	assert.Negative(t, Compare(NumericKey(math.NaN()), NumericKey(-1)))
	assert.Zero(t, Compare(NumericKey(math.NaN()), NumericKey(math.NaN())))
}

func TestLookup(t *testing.T) {
	r := rec(
		"id", 1,
		"meta", rec("owner", rec("name", "Ann")),
		"tags", value.List{value.String("x"), value.String("y")},
		"_attributes", rec("code", "A1"),
	)

	v, ok := Lookup(r, "id")
	require.True(t, ok)
	assert.Equal(t, "1", value.Text(v))

	v, ok = Lookup(r, "meta.owner.name")
	require.True(t, ok)
	assert.Equal(t, value.String("Ann"), v)

	v, ok = Lookup(r, "tags.1")
	require.True(t, ok)
	assert.Equal(t, value.String("y"), v)

	v, ok = Lookup(r, "code")
	require.True(t, ok)
	assert.Equal(t, value.String("A1"), v)

	_, ok = Lookup(r, "missing")
	assert.False(t, ok)
	_, ok = Lookup(value.String("scalar"), "id")
	assert.False(t, ok)
}

func TestRawExtract(t *testing.T) {
	assert.Equal(t, NumericKey(3), Raw{}.Extract(rec("id", 3), "id"))
	assert.Equal(t, LexicalKey("3"), Raw{}.Extract(rec("id", "3"), "id"))
	assert.Equal(t, NumericKey(1), Raw{}.Extract(rec("ok", value.Bool(true)), "ok"))
	assert.Equal(t, LexicalKey(""), Raw{}.Extract(rec("id", 3), "nope"))
	assert.Equal(t, LexicalKey("plain"), Raw{}.Extract(value.String("plain"), ""))
}

func TestDefaultFieldSelection(t *testing.T) {
	tree := rec("depth", 2, "label", "beta")
	assert.Equal(t, LexicalKey("beta"), Alphabetical{}.Extract(tree, ""))

	dated := rec("title", "x", "deadline", "2024/3/9")
	assert.Equal(t, LexicalKey("2024-03-09"), Chronological{}.Extract(dated, ""))

	task := rec("name", "x", "priority", "HIGH")
	assert.Equal(t, OrdinalKey(3), Priority{}.Extract(task, ""))

	assert.Equal(t, NumericKey(7), Raw{}.Extract(rec("n", 7, "m", 8), ""))
	assert.Equal(t, LexicalKey("a"), Raw{}.Extract(value.List{value.String("a")}, ""))
}

func TestAlphabeticalNormalizes(t *testing.T) {
	composed := Alphabetical{}.Extract(rec("n", "\u00e9"), "n")
	decomposed := Alphabetical{}.Extract(rec("n", "e\u0301"), "n")
	assert.Equal(t, composed, decomposed)
}

func TestScrapeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"85分", 85},
		{"price: 12.50 USD", 12.5},
		{"v1.2.3", 1.2},
		{"-3", 3},
		{"none", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScrapeNumber(tt.in), tt.in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024/1/5", "2024-01-05"},
		{"2024年3月7日", "2024-03-07"},
		{"due 2024-02-01T10:00", "2024-02-01T10:00"},
		{"next week", "next week"},
		{"on 2024-1-2", "2024-01-02"},
		{"20240-1-1", "20240-1-1"},
		{"2024-01-123", "2024-01-123"},
		{"12024年1月2日", "12024年1月2日"},
		{"2024年1月2日 9:00", "2024-01-02 9:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDate(tt.in), tt.in)
	}
}

func TestPriorityLevel(t *testing.T) {
	assert.Equal(t, int32(3), PriorityLevel(" High "))
	assert.Equal(t, int32(2), PriorityLevel("MEDIUM"))
	assert.Equal(t, int32(1), PriorityLevel("low"))
	assert.Equal(t, int32(3), PriorityLevel("高"))
	assert.Equal(t, int32(2), PriorityLevel("中"))
	assert.Equal(t, int32(1), PriorityLevel("低"))
	assert.Equal(t, int32(0), PriorityLevel("urgent"))
}

func TestSortByIDAscending(t *testing.T) {
	records := []value.Value{rec("id", 3, "name", "A"), rec("id", 1, "name", "B"), rec("id", 2, "name", "C")}
	s, dir := Resolve(OrderAscending)
	sorted := Sort(records, s, "id", dir)
	assert.Equal(t, []string{"1", "2", "3"}, field(t, sorted, "id"))
}

func TestSortNumericalScrapesStrings(t *testing.T) {
	records := []value.Value{rec("name", "A", "age", "28"), rec("name", "B", "age", "32"), rec("name", "C", "age", "25")}
	s, dir := Resolve(OrderNumerical)
	sorted := Sort(records, s, "age", dir)
	assert.Equal(t, []string{"C", "A", "B"}, field(t, sorted, "name"))
}

func TestSortNumericalOverflowingLiterals(t *testing.T) {
	records := []value.Value{
		rec("v", value.MustNumber("1e400")),
		rec("v", 5),
		rec("v", value.MustNumber("-1e400")),
	}
	for _, s := range []Strategy{Numerical{}, Raw{}} {
		sorted := Sort(records, s, "v", Asc)
		assert.Equal(t, []string{"-1e400", "5", "1e400"}, field(t, sorted, "v"), s.Name())
	}
}

func TestSortPriorityWithMissing(t *testing.T) {
	records := []value.Value{
		rec("task", "a", "priority", "low"),
		rec("task", "b", "priority", "high"),
		rec("task", "c"),
		rec("task", "d", "priority", "medium"),
	}
	s, dir := Resolve(OrderPriority)
	require.Equal(t, Desc, dir)
	sorted := Sort(records, s, "priority", dir)
	assert.Equal(t, []string{"b", "d", "a", "c"}, field(t, sorted, "task"))
}

func TestSortChronological(t *testing.T) {
	records := []value.Value{
		rec("date", "2024年3月1日"),
		rec("date", "2023-12-31"),
		rec("date", "2024/1/5"),
	}
	sorted := Sort(records, Chronological{}, "date", Asc)
	assert.Equal(t, []string{"2023-12-31", "2024/1/5", "2024年3月1日"}, field(t, sorted, "date"))
}

// Unrecognized date shapes key on their raw text, so they are not ordered
// chronologically among themselves.
func TestSortChronologicalUnmatchedIsLexical(t *testing.T) {
	records := []value.Value{
		rec("date", "March 5, 2023"),
		rec("date", "Jan 1, 2024"),
		rec("date", "2023-06-01"),
	}
	sorted := Sort(records, Chronological{}, "date", Asc)
	assert.Equal(t, []string{"2023-06-01", "Jan 1, 2024", "March 5, 2023"}, field(t, sorted, "date"))
}

func TestSortIsStable(t *testing.T) {
	records := []value.Value{
		rec("k", 1, "tag", "a"),
		rec("k", 0, "tag", "b"),
		rec("k", 1, "tag", "c"),
		rec("k", 0, "tag", "d"),
		rec("k", 1, "tag", "e"),
	}
	for _, dir := range []Direction{Asc, Desc} {
		first := Sort(records, Raw{}, "k", dir)
		second := Sort(first, Raw{}, "k", dir)
		assert.Equal(t, field(t, first, "tag"), field(t, second, "tag"))
	}
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, field(t, Sort(records, Raw{}, "k", Asc), "tag"))
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, field(t, Sort(records, Raw{}, "k", Desc), "tag"))
}

func TestAscendingDescendingAreReverses(t *testing.T) {
	records := []value.Value{rec("id", 5), rec("id", 2), rec("id", 9), rec("id", 1)}
	asc := field(t, Sort(records, Raw{}, "id", Asc), "id")
	desc := field(t, Sort(records, Raw{}, "id", Desc), "id")

	reversed := make([]string, len(desc))
	for i, v := range desc {
		reversed[len(desc)-1-i] = v
	}
	assert.Equal(t, asc, reversed)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	records := []value.Value{rec("id", 2), rec("id", 1)}
	_ = Sort(records, Raw{}, "id", Asc)
	assert.Equal(t, []string{"2", "1"}, field(t, records, "id"))
}

func TestCheckField(t *testing.T) {
	records := []value.Value{rec("id", 1), rec("name", "x")}

	assert.NoError(t, CheckField(records, "id"))
	assert.NoError(t, CheckField(records, ""))
	assert.NoError(t, CheckField(nil, "anything"))

	err := CheckField(records, "price")
	var ufe *UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "price", ufe.Field)
	assert.Equal(t, 2, ufe.Records)

	assert.Equal(t, 1, Missing(records, "id"))
}

func TestParseOrderAndResolve(t *testing.T) {
	o, err := ParseOrder("Priority")
	require.NoError(t, err)
	assert.Equal(t, OrderPriority, o)

	_, err = ParseOrder("random")
	assert.Error(t, err)

	for _, o := range Orders() {
		s, dir := Resolve(o)
		assert.NotNil(t, s, o.String())
		wantDesc := o == OrderDescending || o == OrderPriority
		assert.Equal(t, wantDesc, dir == Desc, o.String())
	}
	assert.Equal(t, Asc, Desc.Flip())

	s, dir := Resolve("Priority")
	assert.Equal(t, Priority{}, s)
	assert.Equal(t, Desc, dir)
	s, _ = Resolve(" NUMERICAL ")
	assert.Equal(t, Numerical{}, s)
}
