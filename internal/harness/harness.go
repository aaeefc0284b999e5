package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/extract"
	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
	"github.com/roach88/structsort/internal/store"
	"github.com/roach88/structsort/internal/testutil"
)

// cannedCompleter answers every prompt from a FallbackSpec.
type cannedCompleter struct {
	spec *FallbackSpec
}

func (c cannedCompleter) GetChatCompletion(ctx context.Context, prompt string) (string, error) {
	if c.spec.Error != "" {
		return "", errors.New(c.spec.Error)
	}
	return c.spec.Reply, nil
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store with a deterministic
// clock and a fixed run ID. The run must come back out of the store
// unchanged, then the expect clause and assertions are evaluated.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithRunIDGenerator(testutil.NewFixedIDGenerator("test-run-" + scenario.Name)),
		engine.WithRecorder(st),
		engine.WithMaxItems(scenario.Engine.MaxItems),
	}
	if scenario.Engine.Sorting != nil {
		opts = append(opts, engine.WithSorting(*scenario.Engine.Sorting))
	}
	if scenario.Engine.Formatting != nil {
		opts = append(opts, engine.WithFormatting(*scenario.Engine.Formatting))
	}
	if scenario.Fallback != nil {
		opts = append(opts, engine.WithExtractor(extract.NewLLMExtractor(cannedCompleter{spec: scenario.Fallback}, logger)))
	}
	eng := engine.New(opts...)

	ctx := context.Background()
	res := eng.Process(ctx, scenario.Request.engineRequest())

	result := NewResult()
	result.Output = res

	if err := checkRecorded(ctx, st, res); err != nil {
		result.AddError(err.Error())
	}
	for _, msg := range checkExpect(scenario.Expect, res) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(res, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// engineRequest converts a scenario request, folding enumerated names to
// their canonical case. Unknown names pass through for the engine to reject.
func (r RequestSpec) engineRequest() engine.Request {
	req := engine.Request{
		Input:         r.Input,
		StructureType: format.StructureType(r.StructureType),
		SortOrder:     sorter.Order(r.SortOrder),
		SortKey:       r.SortKey,
		OutputType:    format.StructureType(r.OutputType),
		Reverse:       r.Reverse,
	}
	if n, err := req.Normalize(); err == nil {
		return n
	}
	return req
}

func checkRecorded(ctx context.Context, st *store.Store, res *engine.Result) error {
	rec, err := st.ReadRun(ctx, res.RunID)
	if err != nil {
		return fmt.Errorf("run was not recorded: %w", err)
	}
	if rec.Success != res.Success || rec.TotalItems != res.Stats.TotalItems {
		return fmt.Errorf("recorded run differs: success=%v total_items=%d", rec.Success, rec.TotalItems)
	}
	out, err := rec.FormattedOutput()
	if err != nil {
		return err
	}
	if out != res.FormattedOutput {
		return fmt.Errorf("recorded output differs from result")
	}
	return nil
}
