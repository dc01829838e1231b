package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/transformer/internal/core"
	"github.com/spf13/cobra"
)

func newConvertCmd(r *runner) *cobra.Command {
	var (
		to          string
		dedupe      bool
		fillMissing bool
		columns     []string
		rename      []string
		chart       bool
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Clean, project and convert files to CSV or XLSX",
		Long: `Runs each file through the pipeline and writes the result into the
output directory, named after the source with the new extension.

Stages run in order: remove duplicates, fill missing numeric values with the
column mean, keep the selected columns, rename, export.`,
		Example: `  transform convert sales.xlsx --to csv --dedupe
  transform convert a.csv b.csv --to xlsx --columns id,price --rename price=unit_price`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			_, err := core.ParseFormat(to)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			renameMap, err := core.ParseRenamePairs(rename)
			if err != nil {
				return err
			}
			opts := core.Options{
				Deduplicate: dedupe,
				FillMissing: fillMissing,
				Columns:     columns,
				Rename:      renameMap,
				Visualize:   chart,
				Format:      to,
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			report := r.process(cmd.Context(), args, opts)
			written := make(map[string]string, len(report.Files))
			for i, f := range report.Files {
				if f.Export == nil {
					continue
				}
				path := filepath.Join(outDir, f.Export.FileName)
				if prev, ok := written[path]; ok {
					report.Files[i] = writeFailure(f, fmt.Errorf("%s was already written from %s", path, prev))
					report.Failed++
					r.logger.Warn("output clash", "file", args[i], "path", path, "first", prev)
					continue
				}
				if err := os.WriteFile(path, f.Export.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				written[path] = args[i]
				r.logger.Info("file written", "file", f.FileName, "path", path, "bytes", f.Export.Size)
			}

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

	cmd.Flags().StringVar(&to, "to", "", "Export format: csv or xlsx")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Remove duplicate rows")
	cmd.Flags().BoolVar(&fillMissing, "fill-missing", false, "Fill missing numeric values with the column mean")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to keep, in order (default all)")
	cmd.Flags().StringArrayVar(&rename, "rename", nil, "Rename a column, old=new (repeatable)")
	cmd.Flags().BoolVar(&chart, "chart", false, "Report the chart series of the first two numeric columns")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// writeFailure replaces a converted file's report when its output cannot be
// written.
func writeFailure(f *core.FileReport, err error) *core.FileReport {
	return &core.FileReport{
		FileName: f.FileName,
		Size:     f.Size,
		Format:   f.Format,
		Status:   core.StatusError,
		Err:      &core.FileError{FileName: f.FileName, Op: "write", Err: err},
		Messages: []core.StatusMessage{{
			Level: core.LevelError,
			Text:  fmt.Sprintf("Error writing %s: %v", f.FileName, err),
		}},
	}
}
