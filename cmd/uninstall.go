package cmd

import (
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove devices from the desired state",
	Long: `Pick installed devices to remove from the desired state.

Running sessions are left alone; only the restart guarantee goes away.
Removing the last device deletes the launcher script and disarms the
cron schedule.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return a.orch.Uninstall(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
