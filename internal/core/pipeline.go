package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options is the full configuration for processing one file. The zero value
// ingests and inspects the file without changing or exporting it. A nil
// Columns keeps every column; an empty list keeps none.
type Options struct {
	Deduplicate bool              `json:"deduplicate"`
	FillMissing bool              `json:"fill_missing"`
	Columns     []string          `json:"columns" validate:"omitempty,max=1000,dive,required"`
	Rename      map[string]string `json:"rename,omitempty" validate:"omitempty,max=1000,dive,keys,required,endkeys"`
	Visualize   bool              `json:"visualize"`
	Format      string            `json:"format,omitempty" validate:"omitempty,max=32"`
}

// BatchOptions applies Default to every file unless Files holds an entry
// for that file's name.
type BatchOptions struct {
	Default Options            `json:"default"`
	Files   map[string]Options `json:"files,omitempty" validate:"omitempty,dive"`
}

// ForFile returns the options in effect for the named file.
func (b BatchOptions) ForFile(name string) Options {
	if o, ok := b.Files[name]; ok {
		return o
	}
	return b.Default
}

// Limits bounds a single file's processing.
type Limits struct {
	PreviewRows int
	MaxFileSize int64
}

// Status values for FileReport.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Message levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// StatusMessage is one line of feedback about a file.
type StatusMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Code  string `json:"code,omitempty"`
}

// FileReport is the outcome of processing one file.
type FileReport struct {
	FileName string          `json:"file_name"`
	Size     int64           `json:"size"`
	Format   Format          `json:"format,omitempty"`
	Status   string          `json:"status"`
	Messages []StatusMessage `json:"messages"`

	Columns []ColumnInfo    `json:"columns,omitempty"`
	Rows    int             `json:"rows"`
	Preview *TableView      `json:"preview,omitempty"`
	Summary []ColumnSummary `json:"summary,omitempty"`

	ResultRows int        `json:"result_rows"`
	Result     *TableView `json:"result,omitempty"`
	Chart      *Chart     `json:"chart,omitempty"`

	Export *ExportArtifact `json:"export,omitempty"`

	// Err is the failure that stopped processing, if any.
	Err error `json:"-"`
}

// OK reports whether the file was processed without a fatal error.
func (r *FileReport) OK() bool { return r.Status == StatusOK }

func (r *FileReport) success(format string, args ...any) {
	r.Messages = append(r.Messages, StatusMessage{Level: LevelSuccess, Text: fmt.Sprintf(format, args...)})
}

func (r *FileReport) warn(err error) {
	r.Messages = append(r.Messages, StatusMessage{
		Level: LevelWarning,
		Text:  fmt.Sprintf("%s: %s", r.FileName, MapError(err).Message),
		Code:  MapError(err).Code,
	})
}

// fail records a fatal error for the file and marks the report failed.
func (r *FileReport) fail(op string, err error) {
	r.Status = StatusError
	r.Err = fileErr(r.FileName, op, err)
	msg := MapError(err)
	r.Messages = append(r.Messages, StatusMessage{
		Level: LevelError,
		Text:  fmt.Sprintf("Error processing %s: %s", r.FileName, msg.Message),
		Code:  msg.Code,
	})
}

// Process runs every stage for one file under opts. Stages run in a fixed
// order: ingest, inspect the ingested table, deduplicate, fill missing,
// select, rename, chart, export. A failing stage stops the file; a chart
// that cannot be drawn is only a warning. The artifact is nil unless
// opts.Format is set and export succeeded.
func Process(file UploadedFile, opts Options, lim Limits) (*FileReport, *ExportArtifact) {
	rep := &FileReport{
		FileName: file.Name,
		Size:     file.Size,
		Status:   StatusOK,
	}
	if rep.Size == 0 {
		rep.Size = int64(len(file.Data))
	}

	// Transports may pass an oversize file with its Size set and no Data.
	if size := max(file.Size, int64(len(file.Data))); lim.MaxFileSize > 0 && size > lim.MaxFileSize {
		rep.fail("ingest", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, lim.MaxFileSize))
		return rep, nil
	}

	format, err := DetectFormat(file.Name)
	if err != nil {
		rep.fail("detect", err)
		return rep, nil
	}
	rep.Format = format

	t, err := Ingest(file)
	if err != nil {
		rep.fail("ingest", err)
		return rep, nil
	}
	rep.success("File %s uploaded successfully!", file.Name)
	rep.Columns = t.Info()
	rep.Rows = t.NumRows()
	preview := View(Preview(t, lim.PreviewRows))
	rep.Preview = &preview
	rep.Summary = Describe(t)

	if opts.Deduplicate {
		var n int
		t, n = Deduplicate(t)
		rep.success("Duplicates removed (%d rows).", n)
	}
	if opts.FillMissing {
		var n int
		t, n = FillMissing(t)
		rep.success("Missing values filled with column mean (%d cells).", n)
	}

	t, err = SelectColumns(t, opts.Columns)
	if err != nil {
		rep.fail("select", err)
		return rep, nil
	}
	t = Rename(t, NormalizeRename(t.Names(), opts.Rename))

	rep.ResultRows = t.NumRows()
	result := View(Preview(t, lim.PreviewRows))
	rep.Result = &result

	if opts.Visualize {
		ch, err := ChartSeries(t)
		if err != nil {
			rep.warn(err)
		} else {
			rep.Chart = ch
		}
	}

	if strings.TrimSpace(opts.Format) == "" {
		return rep, nil
	}
	f, err := ParseFormat(opts.Format)
	if err != nil {
		rep.fail("export", err)
		return rep, nil
	}
	art, err := Export(t, f, file.Name)
	if err != nil {
		rep.fail("export", err)
		return rep, nil
	}
	rep.Export = art
	rep.success("Converted %s to %s.", file.Name, strings.ToUpper(string(f)))
	return rep, art
}

// BatchReport collects the per-file reports of one upload, in upload order.
type BatchReport struct {
	ID       string        `json:"id"`
	Files    []*FileReport `json:"files"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration_ns"`
}

// ProcessBatch processes files one at a time in upload order. A failing file
// never stops the others. If ctx ends, files not yet started are reported
// as cancelled.
func ProcessBatch(ctx context.Context, files []UploadedFile, opts BatchOptions, lim Limits) *BatchReport {
	return processBatch(ctx, files, opts, func(f UploadedFile, o Options) *FileReport {
		rep, _ := Process(f, o, lim)
		return rep
	})
}

type processFunc func(UploadedFile, Options) *FileReport

func processBatch(ctx context.Context, files []UploadedFile, opts BatchOptions, process processFunc) *BatchReport {
	start := time.Now()
	br := &BatchReport{
		ID:    uuid.New().String(),
		Files: make([]*FileReport, 0, len(files)),
	}
	for _, f := range files {
		var rep *FileReport
		if err := ctx.Err(); err != nil {
			rep = &FileReport{FileName: f.Name, Size: f.Size, Status: StatusOK}
			rep.fail("process", err)
		} else {
			rep = process(f, opts.ForFile(f.Name))
		}
		if !rep.OK() {
			br.Failed++
		}
		br.Files = append(br.Files, rep)
	}
	br.Duration = time.Since(start)
	return br
}

// FirstError returns the first file error in the batch, or nil.
func (b *BatchReport) FirstError() error {
	for _, f := range b.Files {
		if f.Err != nil {
			return f.Err
		}
	}
	return nil
}

// Errors joins every file error in the batch.
func (b *BatchReport) Errors() error {
	var errs []error
	for _, f := range b.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}
