package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// RelateResult is the payload of the relate command.
type RelateResult struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Relation string `json:"relation"`
}

// NewRelateCommand creates the relate command.
func NewRelateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "relate <specs-dir> <a> <b>",
		Short: "Compare two zones",
		Long: `Evaluate the zones in specs-dir and print how zone a relates to zone b:
EQUAL, SUBSET, SUPERSET or INCOMPARABLE.

The comparison is made on the canonical matrices; clocks tracked by only
one of the zones count as unconstrained in the other.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, rootOpts, args[0], args[1], args[2])
		},
	}
}

func runRelate(cmd *cobra.Command, opts *RootOptions, specsDir, a, b string) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	res, err := evaluateDir(cmd.Context(), opts, f, specsDir)
	if err != nil {
		return err
	}
	zones, err := lookupZones(f, res, a, b)
	if err != nil {
		return err
	}

	out := RelateResult{A: a, B: b, Relation: zones[0].Relation(zones[1]).String()}
	return f.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s %s\n", out.A, out.Relation, out.B)
	})
}
