package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"textcleaner/internal/app"
	"textcleaner/internal/config"
)

var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stale scratch artifacts",
	Long: `Delete scratch files left in workspace.dir by interrupted runs.

Only textcleaner's own artifacts older than --max-age are removed
(default: workspace.sweep_max_age). The age must be at least one minute so
files in use by another textcleaner process are left alone.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

var sweepMaxAgeFlag time.Duration

func init() {
	SweepCmd.Flags().DurationVar(&sweepMaxAgeFlag, "max-age", 0, "Minimum artifact age to delete")
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, cleanup, err := startApplication(cmd, app.Options{}, func(cfg *config.Config) {
		cfg.Workspace.SweepOnStart = false
	})
	if err != nil {
		return err
	}
	defer cleanup()

	maxAge := a.Config.Workspace.SweepMaxAge
	if cmd.Flags().Changed("max-age") {
		maxAge = sweepMaxAgeFlag
	}

	removed, err := a.Workspace.Sweep(maxAge)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d artifact(s) from %s\n", removed, a.Workspace.Dir())
	return nil
}
