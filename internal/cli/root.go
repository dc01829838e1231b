// Package cli implements the transform command, which runs the processing
// pipeline over local files.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/transformer/internal/config"
	"github.com/JonMunkholm/transformer/internal/core"
	"github.com/JonMunkholm/transformer/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(newRootCmd(), os.Stdout, os.Stderr)
}

// execute runs rootCmd and reports a failure on stdout as JSON when
// --output=json, otherwise on stderr with the user message beneath it.
func execute(rootCmd *cobra.Command, stdout, stderr io.Writer) int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if output, _ := rootCmd.PersistentFlags().GetString("output"); output == "json" {
		msg := core.MapError(err)
		_ = printJSON(stdout, map[string]string{
			"error":   err.Error(),
			"message": msg.Message,
			"action":  msg.Action,
			"code":    msg.Code,
		})
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(stderr, core.FormatUserError(err))
	}
	return 1
}

// runner carries settings resolved by the root command to subcommands.
type runner struct {
	output string
	limits core.Limits
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		output      string
		logLevel    string
		previewRows int
		maxFileSize int64
	)
	r := &runner{}

	rootCmd := &cobra.Command{
		Use:           "transform",
		Short:         "Inspect, clean and convert CSV and Excel files",
		Long:          "Runs the same ingest, cleaning, projection and export pipeline as the web service over local files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			// A .env file is optional for the CLI.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Precedence: flag > env > default
			if !cmd.Flags().Changed("preview-rows") {
				previewRows = cfg.Preview.Rows
			}
			if !cmd.Flags().Changed("max-file-size") {
				maxFileSize = cfg.Upload.MaxFileSize
			}
			if !cmd.Flags().Changed("log-level") {
				logLevel = cfg.Logging.Level
			}

			r.output = output
			r.limits = core.Limits{PreviewRows: previewRows, MaxFileSize: maxFileSize}
			r.logger = logging.New(cmd.ErrOrStderr(), logLevel, cfg.Logging.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&previewRows, "preview-rows", core.DefaultPreviewRows, "Rows shown in previews")
	rootCmd.PersistentFlags().Int64Var(&maxFileSize, "max-file-size", 0, "Largest accepted file in bytes (0 uses UPLOAD_MAX_FILE_SIZE)")

	rootCmd.AddCommand(newInspectCmd(r))
	rootCmd.AddCommand(newConvertCmd(r))
	return rootCmd
}

func validateOutputFormat(output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

// readFiles loads paths in argument order. A file that cannot be read is
// returned with no data and its read error, so the batch still reports it.
func readFiles(paths []string) ([]core.UploadedFile, []error) {
	files := make([]core.UploadedFile, len(paths))
	readErrs := make([]error, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		files[i] = core.UploadedFile{Name: filepath.Base(p), Size: int64(len(data)), Data: data}
		readErrs[i] = err
	}
	return files, readErrs
}

// process runs the batch, swapping in read errors for files that could not
// be opened.
func (r *runner) process(ctx context.Context, paths []string, opts core.Options) *core.BatchReport {
	files, readErrs := readFiles(paths)
	report := core.ProcessBatch(ctx, files, core.BatchOptions{Default: opts}, r.limits)
	for i, err := range readErrs {
		if err != nil {
			report.Files[i] = readFailure(report.Files[i], err)
		}
	}

	report.Failed = 0
	for _, f := range report.Files {
		if !f.OK() {
			report.Failed++
			r.logger.Warn("file failed", "file", f.FileName, "error", f.Err, "code", core.MapError(f.Err).Code)
		}
	}
	return report
}

func readFailure(f *core.FileReport, err error) *core.FileReport {
	return &core.FileReport{
		FileName: f.FileName,
		Status:   core.StatusError,
		Err:      &core.FileError{FileName: f.FileName, Op: "read", Err: err},
		Messages: []core.StatusMessage{{
			Level: core.LevelError,
			Text:  fmt.Sprintf("Error reading %s: %v", f.FileName, err),
		}},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// batchError is returned when any file failed, so the exit status is non-zero.
func batchError(report *core.BatchReport) error {
	if report.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files failed: %w", report.Failed, len(report.Files), report.FirstError())
}
