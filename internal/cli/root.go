package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/zonedbm/internal/config"
	"github.com/roach88/zonedbm/internal/engine"
)

// RootOptions holds global flags for all commands. Zero limits mean the
// engine defaults.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Parallelism int
	MaxClocks   int
	MaxSteps    int
	Database    string // run log; empty disables logging
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the zonedbm CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "zonedbm",
		Short: "zonedbm - clock zones for timed automata",
		Long: `Evaluate, compare and interpolate clock zones.

Zones are declared in CUE under a top-level "zone" struct and stored as
canonical difference bound matrices. With --db, eval appends every run to
a SQLite log that trace reads back. Settings are read from ZONEDBM_*
environment variables; flags given on the command line take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.IntVar(&opts.Parallelism, "parallelism", 4, "scenarios run at once by test")
	flags.IntVar(&opts.MaxClocks, "max-clocks", engine.DefaultMaxClocks, "clocks a single zone may track")
	flags.IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxSteps, "steps a single run may apply")
	flags.StringVar(&opts.Database, "db", "", "SQLite run log written by eval and read by trace")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewRelateCommand(opts))
	cmd.AddCommand(NewInterpolateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// applyConfig fills every option the user did not set on the command line
// from the environment.
func (o *RootOptions) applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("verbose") {
		o.Verbose = cfg.Verbose
	}
	if !flags.Changed("parallelism") {
		o.Parallelism = cfg.Parallelism
	}
	if !flags.Changed("max-clocks") {
		o.MaxClocks = cfg.MaxClocks
	}
	if !flags.Changed("max-steps") {
		o.MaxSteps = cfg.MaxSteps
	}
	if !flags.Changed("db") {
		o.Database = cfg.DB
	}
	return nil
}

// engineOptions translates the limits into engine options.
func (o *RootOptions) engineOptions() []engine.EngineOption {
	var opts []engine.EngineOption
	if o.MaxClocks > 0 {
		opts = append(opts, engine.WithMaxClocks(o.MaxClocks))
	}
	if o.MaxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(o.MaxSteps))
	}
	return opts
}

// setupLogging installs the process logger. Library packages log through
// slog.Default.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
