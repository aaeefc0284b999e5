package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	Type       string
	Order      string
	Key        string
	To         string
	Reverse    bool
	MaxItems   int
	NoFallback bool
	Diff       bool
}

// SortOutput is the JSON payload of a diffed sort.
type SortOutput struct {
	*engine.Result
	Diff []DiffLine `json:"diff,omitempty"`
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort [file|-]",
		Short: "Sort the records of one structured document",
		Long: `Parse a structured document, sort its records and render the result.

Input is read from the file argument, or from stdin when the argument is
"-" or absent. The structure type comes from --type, the config defaults,
or the file extension, in that order.

Exit codes:
  0 - Sorted successfully
  1 - The input could not be processed
  2 - Command error (unreadable file, unknown type, etc.)

Examples:
  structsort sort users.json --order ascending --key id
  structsort sort scores.csv -o numerical -k score --reverse
  cat todo.md | structsort sort -t list -o priority --to json
  structsort sort deps.yaml --to yaml --diff`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSort(opts, path, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "input structure type")
	cmd.Flags().StringVarP(&opts.Order, "order", "o", "", "sort order (default from config, else ascending)")
	cmd.Flags().StringVarP(&opts.Key, "key", "k", "", "field to sort on")
	cmd.Flags().StringVar(&opts.To, "to", "", "output structure type (default: input type)")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "reverse the sort direction")
	cmd.Flags().IntVar(&opts.MaxItems, "max-items", 0, "keep at most this many records (0 = all)")
	cmd.Flags().BoolVar(&opts.NoFallback, "no-fallback", false, "disable LLM fallback extraction")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "show a line diff from input to output")

	return cmd
}

func runSort(opts *SortOptions, path string, cmd *cobra.Command) error {
	if err := opts.setup(cmd); err != nil {
		return err
	}
	out := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	input, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	req, err := opts.request(path, string(input))
	if err != nil {
		_ = out.Error(CodeInvalidRequest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid request", err)
	}

	var extra []engine.Option
	if cmd.Flags().Changed("max-items") {
		extra = append(extra, engine.WithMaxItems(opts.MaxItems))
	}
	if opts.NoFallback {
		extra = append(extra, engine.WithFallback(false))
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	eng, closeStore, err := opts.openEngine(ctx, extra...)
	if err != nil {
		return err
	}
	defer closeStore()

	res := eng.Process(ctx, req)
	out.VerboseLog("run %s: %d of %d items, %.3fs", res.RunID, res.Stats.TotalItems, res.Stats.SourceItems, res.ProcessingTime)

	if !res.Success {
		code := CodeForResult(res.ErrorCode)
		if out.IsJSON() {
			_ = out.Envelope(CLIResponse{
				Status: "error",
				Data:   res,
				Error:  &CLIError{Code: code, Message: res.ErrorMessage},
			})
		} else {
			_ = out.Error(code, res.ErrorMessage, res.Stats)
		}
		return NewExitError(ExitFailure, res.ErrorMessage)
	}

	var diff []DiffLine
	if opts.Diff {
		diff = LineDiff(string(input), res.FormattedOutput)
	}

	if out.IsJSON() {
		return out.Success(SortOutput{Result: res, Diff: diff})
	}

	w := cmd.OutOrStdout()
	if opts.Diff {
		writeDiff(w, out, diff)
		return nil
	}
	if res.FormattedOutput != "" {
		fmt.Fprintln(w, res.FormattedOutput)
	}
	return nil
}

// request resolves flags against the configured defaults.
func (o *SortOptions) request(path, input string) (engine.Request, error) {
	defaults := o.Config.Defaults

	typeName := firstNonEmpty(o.Type, defaults.StructureType)
	if typeName == "" && path != "-" {
		typeName = string(format.TypeForPath(path))
	}
	if typeName == "" {
		return engine.Request{}, fmt.Errorf("cannot infer structure type of %s: use --type", displayPath(path))
	}
	st, err := format.ParseStructureType(typeName)
	if err != nil {
		return engine.Request{}, err
	}

	order, err := sorter.ParseOrder(firstNonEmpty(o.Order, defaults.SortOrder, string(sorter.OrderAscending)))
	if err != nil {
		return engine.Request{}, err
	}

	var to format.StructureType
	if name := firstNonEmpty(o.To, defaults.OutputType); name != "" {
		if to, err = format.ParseStructureType(name); err != nil {
			return engine.Request{}, err
		}
	}

	return engine.Request{
		Input:         input,
		StructureType: st,
		SortOrder:     order,
		SortKey:       firstNonEmpty(o.Key, defaults.SortKey),
		OutputType:    to,
		Reverse:       o.Reverse,
	}, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func displayPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
