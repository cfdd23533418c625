package cmd

import (
	"github.com/spf13/cobra"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Attach to or stop a running session",
	Long: `List running sessions and pick one to view or stop.

Viewing attaches your terminal to the session; detach with the tmux
prefix followed by d. Detaching never stops the device. Stopping kills
the session and its whole process tree.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return a.orch.Manage(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(manageCmd)
}
