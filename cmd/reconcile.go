package cmd

import (
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation pass (non-interactive)",
	Long: `Ensure every installed device has a running session, once.

This is what the cron-invoked launcher script effectively does; the
command exists for manual runs and debugging. Per-device failures are
logged and reported at the end instead of aborting the pass. Exits
non-zero if any device could not be started.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return a.orch.Reconcile(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
