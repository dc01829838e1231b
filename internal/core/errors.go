package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Stage failures wrap one of these so callers can branch
// with errors.Is regardless of the file involved.
var (
	// ErrUnsupportedFormat means the file name suffix is not .csv or .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrParseFailure means the content does not match the claimed format.
	ErrParseFailure = errors.New("parse failure")

	// ErrFileTooLarge means the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnknownColumn means a selection or rename names a column the table lacks.
	ErrUnknownColumn = errors.New("column not found")

	// ErrUnknownFormat means an export format tag was not recognised.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrNotEnoughNumeric means a chart was requested for a table with fewer
	// than two numeric columns.
	ErrNotEnoughNumeric = errors.New("not enough numeric columns for visualization")
)

// FileError records a failure of one stage for one file.
type FileError struct {
	FileName string
	Op       string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.FileName, e.Op, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// fileErr wraps err for file name and stage op. It returns nil for nil.
func fileErr(name, op string, err error) error {
	if err == nil {
		return nil
	}
	return &FileError{FileName: name, Op: op, Err: err}
}
