package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/structsort/internal/flatten"
	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
	"github.com/roach88/structsort/internal/value"
)

const (
	// DefaultWorkers bounds batch fan-out.
	DefaultWorkers = 4

	// DefaultFallbackTimeout bounds one fallback extraction.
	DefaultFallbackTimeout = 30 * time.Second

	// DefaultHistoryLimit bounds the in-memory run history.
	DefaultHistoryLimit = 1000
)

// Extractor produces a value from input its parser rejected. The LLM client
// in package extract implements it.
type Extractor interface {
	Extract(ctx context.Context, raw string, t format.StructureType) (value.Value, error)
}

// Recorder persists completed runs. The SQLite store implements it.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// Engine runs the parse, flatten, sort, render pipeline.
//
// Each Process call is independent and side-effect free apart from the
// history append and the optional Recorder. Engine is safe for concurrent
// use; ProcessBatch relies on that.
type Engine struct {
	extractor       Extractor
	recorder        Recorder
	logger          *slog.Logger
	clock           Clock
	ids             RunIDGenerator
	maxItems        int
	workers         int
	fallback        bool
	sorting         bool
	formatting      bool
	fallbackTimeout time.Duration
	historyLimit    int

	mu      sync.Mutex
	history []HistoryEntry
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtractor sets the fallback extractor consulted on parse errors.
func WithExtractor(x Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithRecorder persists every run.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets the clock used for run sequence numbers and timing.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithMaxItems truncates sorted output to n records. Zero means unlimited.
func WithMaxItems(n int) Option {
	return func(e *Engine) {
		e.maxItems = n
	}
}

// WithWorkers sets the batch concurrency limit.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithFallback enables or disables the fallback extractor. Default: enabled.
func WithFallback(enabled bool) Option {
	return func(e *Engine) {
		e.fallback = enabled
	}
}

// WithSorting enables or disables sorting. Disabled runs keep input order.
func WithSorting(enabled bool) Option {
	return func(e *Engine) {
		e.sorting = enabled
	}
}

// WithFormatting enables or disables rendering. Disabled runs leave
// formatted_output empty.
func WithFormatting(enabled bool) Option {
	return func(e *Engine) {
		e.formatting = enabled
	}
}

// WithFallbackTimeout bounds a single fallback extraction.
func WithFallbackTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.fallbackTimeout = d
	}
}

// WithHistoryLimit bounds the in-memory history. Oldest entries go first.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		e.historyLimit = n
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:          slog.Default(),
		clock:           NewSystemClock(),
		ids:             UUIDv7Generator{},
		workers:         DefaultWorkers,
		fallback:        true,
		sorting:         true,
		formatting:      true,
		fallbackTimeout: DefaultFallbackTimeout,
		historyLimit:    DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// Process runs one request through the pipeline. It never returns nil;
// failures are reported in the Result.
func (e *Engine) Process(ctx context.Context, req Request) *Result {
	start := e.clock.Now()
	if n, err := req.Normalize(); err == nil {
		req = n
	}
	res := &Result{
		RunID:         e.ids.Generate(),
		StructureType: string(req.StructureType),
		SortOrder:     string(req.SortOrder),
		SortKey:       req.SortKey,
		OutputType:    string(req.outputType()),
		SortedContent: value.List{},
	}
	log := e.logger.With("run_id", res.RunID, "structure_type", res.StructureType, "sort_order", res.SortOrder)

	if err := e.run(ctx, req, res, log); err != nil {
		e.fail(res, err, log)
	}

	end := e.clock.Now()
	res.ProcessingTime = end.Sub(start).Seconds()
	e.finish(ctx, req, res, end, log)
	return res
}

func (e *Engine) run(ctx context.Context, req Request, res *Result, log *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Input) == "" {
		return &format.EmptyInputError{Format: req.StructureType}
	}

	doc, err := format.ParseDocument(req.Input, req.StructureType)
	if err != nil {
		if !format.IsParseError(err) {
			return err
		}
		v, ferr := e.fallbackExtract(ctx, req, err, log)
		if ferr != nil {
			return ferr
		}
		doc = format.Document{Value: v}
		res.Stats.UsedFallback = true
	}
	res.Stats.ExtractionSuccess = true

	records := flatten.Flatten(doc.Value)
	res.Stats.SourceItems = len(records)

	sorted := records
	if e.sorting {
		sorted = e.sortRecords(records, req, res, log)
	}
	if e.maxItems > 0 && len(sorted) > e.maxItems {
		sorted = sorted[:e.maxItems]
	}

	if e.formatting {
		out, err := format.Render(sorted, req.outputType(), format.WithColumns(doc.Columns))
		if err != nil {
			return err
		}
		res.FormattedOutput = out
		res.Stats.FormattingApplied = true
	}

	res.ExtractedContent = doc.Value
	res.SortedContent = value.List(sorted)
	res.Stats.TotalItems = len(sorted)
	res.Stats.TypeDistribution = typeDistribution(sorted)
	res.Success = true
	return nil
}

// fallbackExtract consults the fallback extractor after a parse error.
func (e *Engine) fallbackExtract(ctx context.Context, req Request, parseErr error, log *slog.Logger) (value.Value, error) {
	if !e.fallback || e.extractor == nil {
		return nil, parseErr
	}
	log.Info("parse failed, trying fallback extraction", "error", parseErr)

	fctx, cancel := context.WithTimeout(ctx, e.fallbackTimeout)
	defer cancel()

	v, err := e.extractor.Extract(fctx, req.Input, req.StructureType)
	if err != nil {
		return nil, &FallbackError{Parse: parseErr, Fallback: err}
	}
	if v == nil {
		return nil, &FallbackError{Parse: parseErr, Fallback: errors.New("extractor returned no value")}
	}
	return v, nil
}

func (e *Engine) sortRecords(records []value.Value, req Request, res *Result, log *slog.Logger) []value.Value {
	strategy, dir := sorter.Resolve(req.SortOrder)
	if req.Reverse {
		dir = dir.Flip()
	}

	if err := sorter.CheckField(records, req.SortKey); err != nil {
		log.Warn("sort key matches no record, using default keys", "error", err)
	}
	res.Stats.MissingKeyRecords = sorter.Missing(records, req.SortKey)
	res.Stats.SortingApplied = true

	log.Debug("sorting records", "strategy", strategy.Name(), "direction", dir.String(), "records", len(records))
	return sorter.Sort(records, strategy, req.SortKey, dir)
}

func (e *Engine) fail(res *Result, err error, log *slog.Logger) {
	res.Success = false
	res.Err = err
	res.ErrorCode = CodeFor(err)
	res.ErrorMessage = err.Error()
	res.ExtractedContent = nil
	res.SortedContent = value.List{}
	res.FormattedOutput = ""
	res.Stats = Stats{TypeDistribution: map[string]int{}}

	if res.ErrorCode == ErrCodeRenderInternal {
		log.Error("renderer failed on a valid record sequence", "error", err)
		return
	}
	log.Info("processing failed", "code", res.ErrorCode, "error", err)
}

// finish appends to history and hands the run to the recorder. Recorder
// failures are logged and do not change the result.
func (e *Engine) finish(ctx context.Context, req Request, res *Result, at time.Time, log *slog.Logger) {
	e.appendHistory(res)
	if e.recorder == nil {
		return
	}

	run := Run{
		ID:        res.RunID,
		Seq:       e.clock.Next(),
		Request:   req,
		Result:    res,
		InputHash: value.InputHash(string(req.StructureType), req.Input),
		CreatedAt: at,
	}
	if res.Success {
		h, err := value.ContentHash(value.DomainOutput, res.SortedContent)
		if err != nil {
			log.Warn("hashing output failed", "error", err)
		}
		run.OutputHash = h
	}
	if err := e.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("recording run failed", "error", err)
	}
}

// ProcessBatch processes requests concurrently, at most WithWorkers at a
// time. Results are indexed like reqs regardless of completion order.
func (e *Engine) ProcessBatch(ctx context.Context, reqs []Request) []*Result {
	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = e.Process(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Debug("batch complete", "requests", len(reqs))
	return results
}

func typeDistribution(records []value.Value) map[string]int {
	dist := make(map[string]int)
	for _, r := range records {
		dist[value.KindOf(r).String()]++
	}
	return dist
}
