package cli

import (
	"github.com/JonMunkholm/transformer/internal/core"
	"github.com/spf13/cobra"
)

func newInspectCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show a preview and numeric summary of each file",
		Long:  "Parses each CSV or XLSX file and prints its first rows and descriptive statistics for numeric columns. Files are processed in argument order; a failing file does not stop the rest.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := r.process(cmd.Context(), args, core.Options{})

			if r.output == "json" {
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}
			return batchError(report)
		},
	}
}
