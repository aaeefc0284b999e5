package cli

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Recent int
}

// StatsResult is the stats command payload.
type StatsResult struct {
	Statistics engine.Statistics  `json:"statistics"`
	Recent     []store.RunSummary `json:"recent"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics of recorded runs",
		Long: `Aggregate the runs recorded in the run database.

The database comes from --db or store.path in the config.

Examples:
  structsort stats --db ./runs.db
  structsort stats --db ./runs.db --recent 20 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Recent, "recent", 10, "number of recent runs to list")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	if err := opts.setup(cmd); err != nil {
		return err
	}
	out := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	path := opts.Config.Store.Path
	if path == "" {
		_ = out.Error(CodeStore, "no run database configured", nil)
		return NewExitError(ExitCommandError, "no run database configured: use --db or store.path")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = out.Error(CodeStore, "database not found: "+path, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	stats, err := st.Statistics(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read statistics", err)
	}
	recent, err := st.ListRuns(ctx, opts.Recent)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	result := StatsResult{Statistics: stats, Recent: recent}

	if out.IsJSON() {
		return out.Success(result)
	}
	return writeStatsText(cmd, out, result)
}

func writeStatsText(cmd *cobra.Command, out *OutputFormatter, result StatsResult) error {
	s := result.Statistics
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Runs:\t%d\n", s.TotalProcessings)
	fmt.Fprintf(w, "Successful:\t%d (%.1f%%)\n", s.SuccessfulProcessings, s.SuccessRate*100)
	fmt.Fprintf(w, "Average time:\t%.3fs\n", s.AverageProcessingTime)

	if len(s.TypeStatistics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "TYPE\tRUNS\tAVG TIME")
		types := make([]string, 0, len(s.TypeStatistics))
		for t := range s.TypeStatistics {
			types = append(types, t)
		}
		slices.Sort(types)
		for _, t := range types {
			ts := s.TypeStatistics[t]
			fmt.Fprintf(w, "%s\t%d\t%.3fs\n", t, ts.Count, ts.AvgTime)
		}
	}

	if len(result.Recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "RUN\tTYPE\tORDER\tITEMS\tSTATUS")
		for _, r := range result.Recent {
			status := out.Pass("ok")
			if !r.Success {
				status = out.Fail(r.ErrorCode)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", truncateID(r.ID), r.StructureType, r.SortOrder, r.TotalItems, status)
		}
	}
	return w.Flush()
}

// truncateID shortens a run ID for display.
func truncateID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
