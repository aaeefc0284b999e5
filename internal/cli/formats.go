package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
)

// FormatsResult lists what the engine accepts.
type FormatsResult struct {
	StructureTypes []string `json:"structure_types"`
	SortOrders     []string `json:"sort_orders"`
}

var orderHelp = map[sorter.Order]string{
	sorter.OrderAscending:     "raw field value, smallest first",
	sorter.OrderDescending:    "raw field value, largest first",
	sorter.OrderAlphabetical:  "case-insensitive text",
	sorter.OrderNumerical:     "first number found in the field",
	sorter.OrderChronological: "dates, normalized to YYYY-MM-DD",
	sorter.OrderPriority:      "urgent/high/medium/low, highest first",
	sorter.OrderCustom:        "raw value of --key, ascending",
}

// NewFormatsCommand creates the formats command.
func NewFormatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "formats",
		Short:         "List structure types and sort orders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormats(rootOpts, cmd)
		},
	}
}

func runFormats(opts *RootOptions, cmd *cobra.Command) error {
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var result FormatsResult
	for _, t := range format.StructureTypes() {
		result.StructureTypes = append(result.StructureTypes, string(t))
	}
	for _, o := range sorter.Orders() {
		result.SortOrders = append(result.SortOrders, string(o))
	}

	if out.IsJSON() {
		return out.Success(result)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Structure types:")
	for _, t := range result.StructureTypes {
		fmt.Fprintf(w, "  %s\n", t)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sort orders:")
	for _, o := range sorter.Orders() {
		fmt.Fprintf(w, "  %s\t%s\n", o, orderHelp[o])
	}
	return w.Flush()
}
