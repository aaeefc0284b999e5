package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/structsort/internal/value"
)

func person(id, name string) *value.Map {
	return value.NewMap(value.E("id", num(id)), value.E("name", str(name)))
}

func render(t *testing.T, records []value.Value, st StructureType, opts ...RenderOption) string {
	t.Helper()
	out, err := Render(records, st, opts...)
	require.NoError(t, err)
	return out
}

func TestRenderEmpty(t *testing.T) {
	tests := []struct {
		st   StructureType
		want string
	}{
		{JSON, "[]"},
		{XML, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<root></root>"},
		{YAML, "[]"},
		{CSV, ""},
		{Table, ""},
		{List, ""},
		{Tree, ""},
		{Graph, "digraph G {\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.st.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, nil, tt.st))
		})
	}
}

func TestRenderEmptyWithColumns(t *testing.T) {
	cols := WithColumns([]string{"id", "name"})
	assert.Equal(t, "id,name", render(t, nil, CSV, cols))
	assert.Equal(t, "| id | name |\n|----|------|", render(t, nil, Table, cols))
}

func TestRenderJSON(t *testing.T) {
	got := render(t, []value.Value{person("1", "张三")}, JSON)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"name\": \"张三\"\n  }\n]", got)
}

func TestRenderJSONDoesNotEscapeHTML(t *testing.T) {
	got := render(t, []value.Value{str("<a&b>")}, JSON)
	assert.Equal(t, "[\n  \"<a&b>\"\n]", got)
}

func TestRenderXML(t *testing.T) {
	got := render(t, []value.Value{person("1", "张三"), str("a<b")}, XML)
	want := `<?xml version="1.0" encoding="UTF-8"?>
<root>
  <item id="0">
    <id>1</id>
    <name>张三</name>
  </item>
  <item id="1">a&lt;b</item>
</root>`
	assert.Equal(t, want, got)
}

func TestRenderXMLAttributesAndLists(t *testing.T) {
	rec := value.NewMap(
		value.E("_tag", str("employee")),
		value.E("_attributes", value.NewMap(value.E("id", str("3")), value.E("name", str("x")))),
		value.E("name", str("王五")),
		value.E("tags", value.List{str("a"), str("b")}),
		value.E("2nd field", str("v")),
	)
	got := render(t, []value.Value{rec}, XML)
	want := `<?xml version="1.0" encoding="UTF-8"?>
<root>
  <item id="0">
    <id>3</id>
    <name>王五</name>
    <tags>a</tags>
    <tags>b</tags>
    <_2nd_field>v</_2nd_field>
  </item>
</root>`
	assert.Equal(t, want, got)
}

func TestRenderYAML(t *testing.T) {
	records := []value.Value{
		value.NewMap(value.E("name", str("Ann")), value.E("age", num("30"))),
		value.NewMap(value.E("name", str("Bob")), value.E("age", str("25"))),
	}
	got := render(t, records, YAML)
	assert.Equal(t, "- name: Ann\n  age: 30\n- name: Bob\n  age: \"25\"", got)
}

func TestRenderCSV(t *testing.T) {
	records := []value.Value{
		person("1", "张三"),
		value.NewMap(value.E("id", num("2")), value.E("note", str("a,b"))),
	}
	got := render(t, records, CSV)
	assert.Equal(t, "id,name,note\n1,张三,\n2,,\"a,b\"", got)
}

func TestRenderCSVScalars(t *testing.T) {
	got := render(t, []value.Value{str("a"), str(""), str("b")}, CSV)
	assert.Equal(t, "value\na\n\"\"\nb", got)
}

func TestRenderTable(t *testing.T) {
	got := render(t, []value.Value{person("1", "张三")}, Table)
	assert.Equal(t, "| id | name |\n|----|------|\n| 1  | 张三 |", got)
}

func TestRenderTableEscapesPipes(t *testing.T) {
	got := render(t, []value.Value{value.NewMap(value.E("a", str("x|y")))}, Table)
	assert.Equal(t, "| a    |\n|------|\n| x\\|y |", got)
}

func TestRenderList(t *testing.T) {
	records := []value.Value{
		value.NewMap(value.E("id", num("1")), value.E("name", str("Ann"))),
		str("plain"),
		value.NewMap(value.E("count", num("3"))),
		value.NewMap(value.E("tags", value.List{num("1")})),
	}
	got := render(t, records, List)
	assert.Equal(t, "- Ann\n- plain\n- 3\n- {\"tags\":[1]}", got)
}

func depthRecord(d int64, label string) *value.Map {
	return value.NewMap(value.E("depth", value.NumberFromInt(d)), value.E("label", str(label)))
}

func TestRenderTreeFromDepth(t *testing.T) {
	records := []value.Value{
		depthRecord(0, "root"),
		depthRecord(1, "a"),
		depthRecord(2, "a1"),
		depthRecord(2, "a2"),
		depthRecord(1, "b"),
		depthRecord(2, "b1"),
	}
	want := "root\n├─ a\n│  ├─ a1\n│  └─ a2\n└─ b\n   └─ b1"
	assert.Equal(t, want, render(t, records, Tree))
}

func TestRenderTreeFromChildren(t *testing.T) {
	records := []value.Value{
		value.NewMap(
			value.E("name", str("A")),
			value.E("children", value.List{value.NewMap(value.E("name", str("A1")))}),
		),
		value.NewMap(value.E("name", str("B"))),
	}
	assert.Equal(t, "├─ A\n│  └─ A1\n└─ B", render(t, records, Tree))
}

func TestRenderGraph(t *testing.T) {
	records := []value.Value{
		value.NewMap(value.E("from", str("A")), value.E("to", str("B")), value.E("label", str("x"))),
		value.NewMap(value.E("name", str("节点A")), value.E("connections", value.List{str("节点B")})),
		value.NewMap(value.E("node", str("n1")), value.E("label", str(`say "hi"`))),
	}
	want := `digraph G {
  "A" -> "B" [label="x"];
  node_1 [label="节点A"];
  node_1 -> "节点B";
  "n1" [label="say \"hi\""];
}`
	assert.Equal(t, want, render(t, records, Graph))
}

func TestRenderUnsupportedType(t *testing.T) {
	_, err := Render(nil, StructureType("toml"))
	assert.True(t, IsRenderInternal(err))
}
