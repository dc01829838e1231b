package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	mimeCSV  = "text/csv"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	exportSheet = "Sheet1"
)

// ParseFormat resolves an export format tag. "excel" and "spreadsheet" are
// accepted as aliases for xlsx. Matching ignores case and surrounding space.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension returns the file suffix for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// MIME returns the content type served for f.
func (f Format) MIME() string {
	if f == FormatXLSX {
		return mimeXLSX
	}
	return mimeCSV
}

// OutputName swaps the extension of source for the one of f:
// "report.CSV" becomes "report.xlsx".
func OutputName(source string, f Format) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + f.Extension()
}

// ExportArtifact is a serialised table ready for download.
type ExportArtifact struct {
	Format   Format `json:"format"`
	FileName string `json:"file_name"`
	MIME     string `json:"mime"`
	Size     int    `json:"size"`
	Data     []byte `json:"-"`
}

// Reader returns a fresh reader over the artifact, positioned at the start.
func (a *ExportArtifact) Reader() io.ReadSeeker {
	return bytes.NewReader(a.Data)
}

// Export serialises t in format f. The artifact is named after sourceName
// with its extension replaced.
func Export(t *Table, f Format, sourceName string) (*ExportArtifact, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatCSV:
		data, err = writeCSV(t)
	case FormatXLSX:
		data, err = writeXLSX(t)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	return &ExportArtifact{
		Format:   f,
		FileName: OutputName(sourceName, f),
		MIME:     f.MIME(),
		Size:     len(data),
		Data:     data,
	}, nil
}

// writeCSV writes the header then one record per row. There is no index
// column and missing cells are empty fields.
func writeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Names()); err != nil {
		return nil, err
	}
	rec := make([]string, t.NumCols())
	for r := 0; r < t.rows; r++ {
		for i, c := range t.columns {
			rec[i] = c.Cells[r].String()
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeXLSX streams the table into the default sheet. Numbers are stored as
// numbers, text as strings, and missing cells are left empty.
func writeXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, t.NumCols())
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	row := make([]interface{}, t.NumCols())
	for r := 0; r < t.rows; r++ {
		for i, c := range t.columns {
			cell := c.Cells[r]
			switch cell.Kind {
			case CellNumber:
				row[i] = cell.Num
			case CellText:
				row[i] = cell.Str
			default:
				row[i] = nil
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(axis, row); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
