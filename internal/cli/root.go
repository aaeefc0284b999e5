package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/structsort/internal/config"
	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/extract"
	"github.com/roach88/structsort/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string

	// Config is loaded on first use. Tests may set it directly.
	Config *config.Config

	// Logger writes to stderr. Set on first use.
	Logger *slog.Logger

	// Completer overrides the Azure OpenAI client (for testing).
	Completer extract.Completer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the structsort CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "structsort",
		Short: "structsort - sort structured text",
		Long: `Parse structured text (JSON, XML, YAML, CSV, Markdown tables, lists,
trees, graphs), sort its records and render them back in any supported syntax.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to structsort.yaml")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewFormatsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// setup validates global flags, loads configuration and installs the
// logger. It is safe to call more than once.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	if o.Config == nil {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		if err := cfg.Validate(); err != nil {
			return WrapExitError(ExitCommandError, "invalid config", err)
		}
		o.Config = cfg
	}
	if o.Database != "" {
		o.Config.Store.Path = o.Database
	}

	if o.Logger == nil {
		o.Logger = newLogger(o.Config.Logging, o.Verbose, cmd.ErrOrStderr())
	}
	return nil
}

// newLogger builds the stderr logger. --verbose forces debug level.
func newLogger(cfg config.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	level := (&config.Config{Logging: cfg}).SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// openEngine builds an engine from the loaded configuration. The returned
// close function releases the run store, if one was opened. extra options
// are applied last so command flags win over configuration.
func (o *RootOptions) openEngine(ctx context.Context, extra ...engine.Option) (*engine.Engine, func(), error) {
	cfg := o.Config
	logger := o.Logger

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithWorkers(cfg.Engine.Workers),
		engine.WithMaxItems(cfg.Engine.MaxItems),
		engine.WithFallback(cfg.Engine.Fallback),
		engine.WithSorting(cfg.Engine.Sorting),
		engine.WithFormatting(cfg.Engine.Formatting),
		engine.WithFallbackTimeout(cfg.Engine.FallbackTimeout),
		engine.WithHistoryLimit(cfg.Engine.HistoryLimit),
	}

	completer := o.Completer
	if completer == nil && cfg.LLMConfigured() {
		client, err := extract.NewAzOpenAIClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Deployment, cfg.LLM.Temperature)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to create LLM client", err)
		}
		completer = client
	}
	if completer != nil {
		opts = append(opts, engine.WithExtractor(extract.NewLLMExtractor(completer, logger)))
		logger.Debug("fallback extraction enabled")
	}

	closeFn := func() {}
	if cfg.Store.Path != "" {
		logger.Debug("opening database", "path", cfg.Store.Path)
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		seq, err := st.MaxSeq(ctx)
		if err != nil {
			st.Close()
			return nil, nil, WrapExitError(ExitCommandError, "failed to read database", err)
		}
		opts = append(opts, engine.WithRecorder(st), engine.WithClock(engine.NewSystemClockAt(seq)))
		closeFn = func() {
			if err := st.Close(); err != nil {
				logger.Error("error closing database", "error", err)
			}
		}
	}

	return engine.New(append(opts, extra...)...), closeFn, nil
}
