package cli

import (
	"blocktree/internal/mutate"
	"blocktree/internal/tree"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the owner's blocks for structural problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report tree.Report
			err := withSnapshot(cmd, app, func(o *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				report = snap.Check()
				return map[string]any{
					"data": report,
					"meta": map[string]any{
						"owner":     o.OwnerID(),
						"blocks":    snap.Len(),
						"issues":    len(report.Issues),
						"hasErrors": report.HasErrors(),
					},
					"_hints": []string{"blocktree tree --format text"},
				}, nil
			})
			if err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
