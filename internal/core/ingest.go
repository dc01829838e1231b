package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// UploadedFile is one file as received from a client.
type UploadedFile struct {
	Name string
	Size int64
	Data []byte
}

// Format identifies a tabular file format, used both for input sniffing and
// for export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the input format from the file name suffix. Only .csv
// and .xlsx are recognised, in any letter case.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Ingest parses a file into a table. CSV is read whole with its first record
// as the header. XLSX is read from the first sheet with its first row as the
// header. Content that does not parse as the claimed format fails with
// ErrParseFailure.
func Ingest(file UploadedFile) (*Table, error) {
	format, err := DetectFormat(file.Name)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return parseCSV(file.Data)
	default:
		return parseXLSX(file.Data)
	}
}

func parseCSV(data []byte) (*Table, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content in CSV", ErrParseFailure)
	}

	r := csv.NewReader(WrapForCSV(bytes.NewReader(data)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse from file", ErrParseFailure)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		records = append(records, rec)
	}

	t, err := FromRecords(header, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return t, nil
}

func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrParseFailure, sheet, err)
	}

	// Leading blank rows are not a header. GetRows keeps blank rows in
	// place, so rows[i] is sheet row i+1.
	headerRow := 0
	for headerRow < len(rows) && len(rows[headerRow]) == 0 {
		headerRow++
	}
	if headerRow == len(rows) {
		return &Table{}, nil
	}

	// Trailing empty cells are trimmed per row, so a data row can be wider
	// than its header. Widen the header with blank names instead of failing.
	header := rows[headerRow]
	records := rows[headerRow+1:]
	width := len(header)
	for _, row := range records {
		width = max(width, len(row))
	}
	if width > len(header) {
		header = append(append(make([]string, 0, width), header...), make([]string, width-len(header))...)
	}

	// Cells stored as strings stay text even when they read as numbers,
	// so "007" keeps its leading zeros.
	storedAsText := func(r, c int) bool {
		ref, err := excelize.CoordinatesToCellName(c+1, headerRow+r+2)
		if err != nil {
			return false
		}
		typ, err := f.GetCellType(sheet, ref)
		if err != nil {
			return false
		}
		switch typ {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
			return true
		}
		return false
	}

	t, err := fromRecords(header, records, storedAsText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return t, nil
}
