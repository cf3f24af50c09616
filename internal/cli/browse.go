package cli

import (
	"blocktree/internal/tui"

	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and rearrange blocks in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, done, err := loadOrchestrator(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if err := tui.Run(cmd.Context(), o); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
