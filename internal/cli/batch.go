package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/manifest"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Workers int
}

// BatchItem is one manifest item's outcome.
type BatchItem struct {
	Label  string         `json:"label"`
	Result *engine.Result `json:"result"`
}

// BatchResult holds the overall batch result.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Total     int         `json:"total"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Sort every input listed in a manifest",
		Long: `Process every item of a YAML batch manifest concurrently.

Results are printed in manifest order. Relative file paths in the manifest
are resolved against the manifest's directory.

Exit codes:
  0 - Every item sorted
  1 - One or more items failed
  2 - Command error (invalid manifest, unreadable file, etc.)

Examples:
  structsort batch jobs.yaml
  structsort batch jobs.yaml --workers 8 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent items (default from config)")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	if err := opts.setup(cmd); err != nil {
		return err
	}
	out := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, err := manifest.Load(path)
	if err != nil {
		var me *manifest.Error
		if errors.As(err, &me) {
			_ = out.Error(CodeManifest, me.Error(), me)
		}
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}
	reqs, err := m.Requests(filepath.Dir(path))
	if err != nil {
		_ = out.Error(CodeManifest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to resolve manifest", err)
	}

	var extra []engine.Option
	if opts.Workers > 0 {
		extra = append(extra, engine.WithWorkers(opts.Workers))
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	eng, closeStore, err := opts.openEngine(ctx, extra...)
	if err != nil {
		return err
	}
	defer closeStore()

	results := eng.ProcessBatch(ctx, reqs)

	batch := BatchResult{Items: make([]BatchItem, len(results)), Total: len(results)}
	for i, res := range results {
		batch.Items[i] = BatchItem{Label: m.Items[i].Label(i), Result: res}
		if res.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}

	if out.IsJSON() {
		resp := CLIResponse{Status: "ok", Data: batch}
		if batch.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{Code: CodeBatchFailed, Message: fmt.Sprintf("%d item(s) failed", batch.Failed)}
		}
		if err := out.Envelope(resp); err != nil {
			return err
		}
	} else {
		writeBatchText(cmd, out, batch)
	}

	if batch.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d item(s) failed", batch.Failed))
	}
	return nil
}

func writeBatchText(cmd *cobra.Command, out *OutputFormatter, batch BatchResult) {
	w := cmd.OutOrStdout()
	for _, item := range batch.Items {
		res := item.Result
		if !res.Success {
			fmt.Fprintf(w, "%s %s\n", out.Fail("✗"), item.Label)
			fmt.Fprintf(w, "  [%s] %s\n", CodeForResult(res.ErrorCode), res.ErrorMessage)
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", out.Pass("✓"), item.Label, out.Faint(fmt.Sprintf("(%d items)", res.Stats.TotalItems)))
		if res.FormattedOutput != "" {
			fmt.Fprintln(w, res.FormattedOutput)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Batch Summary: %d succeeded, %d failed, %d total\n", batch.Succeeded, batch.Failed, batch.Total)
}
