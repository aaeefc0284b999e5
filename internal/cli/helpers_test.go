package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/structsort/internal/config"
)

// testRootOptions returns options with default config and a silent logger,
// so commands run without touching the environment.
func testRootOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// executeRoot runs the full command tree in an isolated working directory
// and home, returning stdout and the command error.
func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_DEPLOYMENT"} {
		t.Setenv(k, "")
	}

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
