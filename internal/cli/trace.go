package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Zone        string // optional - filter events to one zone
	Fingerprint string // optional - find zones by fingerprint instead
}

// TraceResult is the payload of trace for a single run.
type TraceResult struct {
	Run    store.Run          `json:"run"`
	Events []engine.Event     `json:"events"`
	Zones  []store.ZoneRecord `json:"zones"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Show runs recorded in the run log",
		Long: `Read back runs that eval recorded with --db.

Without a run ID, lists every recorded run. With one, prints the run's step
trace followed by the consistency and fingerprint of each zone it produced.
With --fingerprint, lists the zones in any run that had that fingerprint.

Examples:
  zonedbm trace --db ./runs.db
  zonedbm trace --db ./runs.db 0192b6c4-... --zone w
  zonedbm trace --db ./runs.db --fingerprint 3f9a...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runTrace(cmd, opts, runID)
		},
	}

	cmd.Flags().StringVar(&opts.Zone, "zone", "", "only show events of this zone")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "find zones with this fingerprint")

	return cmd
}

func runTrace(cmd *cobra.Command, opts *TraceOptions, runID string) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	st, err := openRunLog(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	switch {
	case opts.Fingerprint != "":
		return traceFingerprint(ctx, f, st, opts.Fingerprint)
	case runID == "":
		return traceRuns(ctx, f, st)
	default:
		return traceRun(ctx, f, st, runID, opts.Zone)
	}
}

func traceRuns(ctx context.Context, f *OutputFormatter, st *store.Store) error {
	runs, err := st.ReadRuns(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}
	return f.Success(runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		for _, r := range runs {
			fmt.Fprintf(w, "%s  %d event(s)  %d zone(s)  %s\n", r.ID, r.Events, r.Zones, r.Source)
		}
	})
}

func traceRun(ctx context.Context, f *OutputFormatter, st *store.Store, runID, zoneName string) error {
	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return f.Fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run %q not found", runID), nil)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}

	events, err := st.ReadTrace(ctx, runID, zoneName)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}
	zones, err := st.ReadZones(ctx, runID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}
	if zoneName != "" {
		zones = filterZones(zones, zoneName)
	}

	out := TraceResult{Run: run, Events: events, Zones: zones}
	return f.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "Run %s (%s)\n\n", run.ID, run.Source)
		for _, ev := range events {
			fmt.Fprintf(w, "%3d %-8s %-30s %s\n", ev.Seq, ev.Zone, ev.Step, consistency(ev.Consistent))
		}
		fmt.Fprintln(w)
		for _, z := range zones {
			fmt.Fprintf(w, "%s: %s\n  fingerprint %s\n", z.Name, consistency(z.Consistent), z.Fingerprint)
		}
	})
}

func traceFingerprint(ctx context.Context, f *OutputFormatter, st *store.Store, fingerprint string) error {
	hits, err := st.FindFingerprint(ctx, fingerprint)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}
	return f.Success(hits, func(w io.Writer) {
		if len(hits) == 0 {
			fmt.Fprintf(w, "No zones with fingerprint %s.\n", fingerprint)
			return
		}
		for _, h := range hits {
			fmt.Fprintf(w, "%s %s\n", h.RunID, h.Zone)
		}
	})
}

func filterZones(zones []store.ZoneRecord, name string) []store.ZoneRecord {
	out := []store.ZoneRecord{}
	for _, z := range zones {
		if z.Name == name {
			out = append(out, z)
		}
	}
	return out
}

// openRunLog opens the run log at path. An empty path is a command error.
func openRunLog(f *OutputFormatter, path string) (*store.Store, error) {
	if path == "" {
		return nil, f.Fail(ExitCommandError, ErrCodeRunLog, "no run log configured (use --db or ZONEDBM_DB)", nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}
	return st, nil
}

// recordRun appends res to the run log when one is configured.
func recordRun(ctx context.Context, opts *RootOptions, f *OutputFormatter, source string, res *engine.Result) error {
	if opts.Database == "" {
		return nil
	}

	rec := store.RunRecord{ID: res.RunID, Source: source, Events: res.Trace}
	for _, name := range res.Names() {
		z, _ := res.Lookup(name)
		fp, err := z.Fingerprint()
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, fmt.Sprintf("zone %s: %v", name, err), nil)
		}
		rec.Zones = append(rec.Zones, store.ZoneRecord{
			Name:        name,
			Consistent:  z.IsConsistent(),
			Fingerprint: fp,
		})
	}

	st, err := openRunLog(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.WriteRun(ctx, rec); err != nil {
		return f.Fail(ExitCommandError, ErrCodeRunLog, err.Error(), nil)
	}
	f.VerboseLog("Recorded run %s in %s", rec.ID, opts.Database)
	return nil
}
