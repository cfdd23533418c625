package cmd

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start installed devices now, without waiting for the schedule",
	Long: `Pick installed devices and ensure each has a running session.

Devices that are already running are left untouched. A device that
fails to start (script deleted, backend unavailable) is reported
individually; the others are still attempted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return a.orch.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
