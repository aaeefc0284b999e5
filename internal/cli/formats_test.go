package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatsCommand_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewFormatsCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "Structure types:")
	assert.Contains(t, out, "  graph\n")
	assert.Contains(t, out, "Sort orders:")
	assert.Contains(t, out, "priority")
	assert.Contains(t, out, "urgent/high/medium/low")
}

func TestFormatsCommand_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewFormatsCommand(testRootOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string        `json:"status"`
		Data   FormatsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"json", "xml", "yaml", "csv", "table", "list", "tree", "graph"}, resp.Data.StructureTypes)
	assert.Len(t, resp.Data.SortOrders, 7)
}
