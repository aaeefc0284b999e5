package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStatsCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewStatsCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestStatsCommand_NoDatabase(t *testing.T) {
	out, err := runStatsCmd(t, testRootOptions("text"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestStatsCommand_DatabaseNotFound(t *testing.T) {
	opts := testRootOptions("text")
	opts.Database = filepath.Join(t.TempDir(), "absent.db")

	_, err := runStatsCmd(t, opts)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestStatsCommand_AfterSorts(t *testing.T) {
	opts := testRootOptions("text")
	opts.Database = filepath.Join(t.TempDir(), "runs.db")

	_, err := runSortCmd(t, opts, "[2, 1]", "-t", "json")
	require.NoError(t, err)
	_, err = runSortCmd(t, opts, "- b\n- a", "-t", "list")
	require.NoError(t, err)
	_, err = runSortCmd(t, opts, "{", "-t", "json")
	require.Error(t, err)

	out, err := runStatsCmd(t, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs:")
	assert.Contains(t, out, "2 (66.7%)")
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "PARSE_ERROR")

	opts.Format = "json"
	out, err = runStatsCmd(t, opts, "--recent", "1")
	require.NoError(t, err)

	var resp struct {
		Data StatsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Data.Statistics.TotalProcessings)
	assert.Equal(t, 2, resp.Data.Statistics.SuccessfulProcessings)
	assert.Equal(t, 2, resp.Data.Statistics.TypeStatistics["json"].Count)
	require.Len(t, resp.Data.Recent, 1)
	assert.False(t, resp.Data.Recent[0].Success)
}
