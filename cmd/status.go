package cmd

import (
	"github.com/spf13/cobra"

	"github.com/acqtools/devherd/internal/status"
)

var flagTheme string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Interactive dashboard of desired vs running devices",
	Long: `Launch a terminal dashboard showing every installed device and every
running session, refreshing periodically.

Keys: enter attaches to the selected session, s starts a stopped
device, x kills a session, r refreshes, q quits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		theme := flagTheme
		if theme == "" {
			theme = a.cfg.Theme
		}
		tui := &status.TUI{
			Backend: a.orch.Backend,
			Store:   a.orch.Store,
			Refresh: a.cfg.RefreshDuration,
			Theme:   status.ThemeByName(theme),
		}
		attachID, err := tui.Run(cmd.Context())
		if err != nil {
			return err
		}
		if attachID != "" {
			// Attach after bubbletea has released the terminal.
			return a.orch.Backend.Attach(cmd.Context(), attachID)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&flagTheme, "theme", "", "color theme: dark, light (default from config)")
	rootCmd.AddCommand(statusCmd)
}
