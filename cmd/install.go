package cmd

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install device scripts into the desired state",
	Long: `Scan the devices directory for worker scripts not yet installed,
pick some, and add them to the desired state.

Installing arms the cron schedule (one @reboot entry plus one
fixed-interval entry) and starts the chosen devices immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return a.orch.Install(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
