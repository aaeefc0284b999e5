package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/structsort/internal/flatten"
	"github.com/roach88/structsort/internal/format"
)

var roundTripInputs = map[format.StructureType]string{
	format.JSON: `{"users": [{"id": 3, "name": "王五"}, {"id": 1, "name": "张三", "tags": ["a", "b"]}, {"items": [1, 2]}]}`,
	format.XML: `<employees>
  <employee id="3"><name>王五</name></employee>
  <employee id="1"><name>张三</name></employee>
  <employee id="2"/>
</employees>`,
	format.YAML: "- name: Ann\n  age: 30\n- name: Bob\n  age: 25\n- plain\n",
	format.CSV:  "name,score\n张三,85分\nBob,\n\"Lee, Jr.\",90\n",
	format.Table: `| task | priority |
|------|----------|
| 写报告 | high |
| fix \| bug | low |
|  |  |`,
	format.List: "- apple\n* banana\n1. cherry\n-\n",
	format.Tree: `root
├─ a
│   ├─ a1
│   └─ a2
└─ b
    └─ b1`,
	format.Graph: "A -> B\nB → C [label=\"x\"]\nn1 [label=\"one\"]\nC -- D -- E\n",
}

func records(t *testing.T, raw string, st format.StructureType) (int, []string) {
	t.Helper()
	doc, err := format.ParseDocument(raw, st)
	require.NoError(t, err)
	return len(flatten.Flatten(doc.Value)), doc.Columns
}

// Rendering the records of a valid input and parsing the result back must
// yield the same number of records.
func TestRoundTripRecordCount(t *testing.T) {
	for st, raw := range roundTripInputs {
		t.Run(st.String(), func(t *testing.T) {
			doc, err := format.ParseDocument(raw, st)
			require.NoError(t, err)
			recs := flatten.Flatten(doc.Value)
			require.NotEmpty(t, recs)

			out, err := format.Render(recs, st, format.WithColumns(doc.Columns))
			require.NoError(t, err)

			n, _ := records(t, out, st)
			assert.Equal(t, len(recs), n, "rendered:\n%s", out)
		})
	}
}

func TestRoundTripKeepsTabularHeader(t *testing.T) {
	for _, st := range []format.StructureType{format.CSV, format.Table} {
		t.Run(st.String(), func(t *testing.T) {
			doc, err := format.ParseDocument(roundTripInputs[st], st)
			require.NoError(t, err)

			out, err := format.Render(flatten.Flatten(doc.Value), st, format.WithColumns(doc.Columns))
			require.NoError(t, err)

			_, cols := records(t, out, st)
			assert.Equal(t, doc.Columns, cols)
		})
	}
}
