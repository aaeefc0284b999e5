package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where RunWithGolden keeps golden files, relative to the
// test's package directory.
const GoldenDir = "testdata/golden"

// RunWithGolden executes a scenario, fails the test on any expectation
// error, and compares its snapshot against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	snapshot, err := NewSnapshot(scenario.Name, result.Output).Bytes()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)
	return nil
}

// GoldenPath returns the golden file kept next to a scenario file:
// scenarios/x.yaml pairs with golden/x.golden in the sibling directory,
// named by scenario.
func GoldenPath(scenarioFile, name string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(scenarioFile)), "golden", name+".golden")
}

// CompareGolden compares snapshot with the golden file at path. A missing
// golden file is not an error: ok reports whether a comparison happened.
func CompareGolden(path string, snapshot []byte) (ok bool, err error) {
	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, snapshot) {
		return true, fmt.Errorf("snapshot differs from %s", path)
	}
	return true, nil
}

// WriteGolden writes snapshot to path, creating its directory.
func WriteGolden(path string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}
	return os.WriteFile(path, snapshot, 0o644)
}
