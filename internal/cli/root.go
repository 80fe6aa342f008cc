// Package cli implements the lvtraffic command-line interface.
//
// Commands:
//   - plan: route agents from a map and an agents/scenario file with
//     iterated congestion-aware replanning, then print per-round reports
//     and a traffic summary.
//   - cost: evaluate the BPR edge cost for given flow estimates.
//
// All commands accept --verbose (-v) for debug logging; the logger travels
// through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the values reported by --version; main injects them via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI with os.Args, logging to stderr.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// newRootCmd builds the command tree. Reports go to stdout, logs to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "lvtraffic",
		Short:         "Congestion-aware multi-agent route planning on grid maps",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("lvtraffic %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlanCmd())
	root.AddCommand(newCostCmd())
	return root
}
