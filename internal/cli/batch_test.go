package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runBatchCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewBatchCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

const batchManifest = `defaults:
  sort_order: ascending
items:
  - name: numbers
    structure_type: json
    input: "[3, 1, 2]"
  - name: people
    file: people.csv
    sort_order: numerical
    sort_key: age
`

func TestBatchCommand_Text(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "people.csv", "name,age\nA,30\nB,25\n")
	path := writeFile(t, dir, "jobs.yaml", batchManifest)

	out, err := runBatchCmd(t, testRootOptions("text"), path, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ numbers (3 items)")
	assert.Contains(t, out, "✓ people (2 items)")
	assert.Contains(t, out, "name,age\nB,25\nA,30\n")
	assert.Contains(t, out, "Batch Summary: 2 succeeded, 0 failed, 2 total")
	assert.Less(t, bytes.Index([]byte(out), []byte("numbers")), bytes.Index([]byte(out), []byte("people")))
}

func TestBatchCommand_JSONKeepsManifestOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "people.csv", "name,age\nA,30\nB,25\n")
	path := writeFile(t, dir, "jobs.yaml", batchManifest)

	out, err := runBatchCmd(t, testRootOptions("json"), path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Items []struct {
				Label string `json:"label"`
				Result struct {
					Success bool `json:"success"`
				} `json:"result"`
			} `json:"items"`
			Succeeded int `json:"succeeded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Items, 2)
	assert.Equal(t, "numbers", resp.Data.Items[0].Label)
	assert.Equal(t, "people", resp.Data.Items[1].Label)
	assert.Equal(t, 2, resp.Data.Succeeded)
}

func TestBatchCommand_FailedItem(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs.yaml", `items:
  - structure_type: json
    input: "[1]"
  - structure_type: json
    input: "{broken"
`)

	out, err := runBatchCmd(t, testRootOptions("text"), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ item-2")
	assert.Contains(t, out, "[E002]")
	assert.Contains(t, out, "1 succeeded, 1 failed, 2 total")
}

func TestBatchCommand_InvalidManifest(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs.yaml", `items:
  - structure_type: toml
    input: "a = 1"
`)

	out, err := runBatchCmd(t, testRootOptions("text"), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
}

func TestBatchCommand_MissingItemFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs.yaml", `items:
  - file: absent.json
`)

	_, err := runBatchCmd(t, testRootOptions("text"), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to resolve manifest")
}

func TestBatchCommand_MissingArgs(t *testing.T) {
	_, err := runBatchCmd(t, testRootOptions("text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
