package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print installed devices and whether each is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		devices, err := a.orch.Store.List()
		if err != nil {
			return err
		}
		running, err := a.orch.Backend.List(cmd.Context())
		if err != nil {
			return err
		}
		isRunning := make(map[string]bool, len(running))
		for _, id := range running {
			isRunning[id] = true
		}

		for _, d := range devices {
			state := "stopped"
			if isRunning[d.ID] {
				state = "running"
			}
			fmt.Printf("%-10s %s\n", state, d.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
