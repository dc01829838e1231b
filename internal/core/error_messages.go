package core

// error_messages.go maps technical errors to messages users can act on.
//
// # Error Codes Reference
//
// Each code names one failure users can quote to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Split the file or remove unused columns
//	FILE002 - Unsupported format: Only .csv and .xlsx files are accepted
//	          Action: Save the file as CSV or Excel workbook
//	FILE003 - Parse failure: The file content could not be read as a table
//	          Action: Check that the content matches the file extension
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: The uploaded file has no header row
//	FILE006 - Binary content: The file contains binary data
//	FILE007 - Ragged rows: A row has more fields than the header
//	FILE008 - Too many files: The request exceeds the per-batch file limit
//
// # Transform Errors (XFM001-XFM099)
//
//	XFM001 - Unknown column: A selected or renamed column is not in the file
//	XFM002 - Unknown export format: Format must be csv or xlsx
//
// # Visualization Warnings (VIS001-VIS099)
//
//	VIS001 - Not enough numeric columns to draw a chart
//
// # Request Errors (UPL001-UPL099, RATE001)
//
//	UPL001 - System busy: Every processing slot is in use
//	UPL002 - Request cancelled
//	UPL003 - Request timed out
//	UPL004 - Invalid options: The options payload failed validation
//	RATE001 - Too many requests from this client
//
// # Default (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// # Matching
//
// Sentinel errors are matched first with errors.Is. Remaining errors are
// matched case-insensitively by substring, first match wins, so specific
// patterns come before general ones.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file or remove unused columns",
		Code:    "FILE001",
	}
	msgUnsupported = UserMessage{
		Message: "Unsupported file format",
		Action:  "Upload a .csv file or an .xlsx workbook",
		Code:    "FILE002",
	}
	msgParseFailure = UserMessage{
		Message: "The file could not be read as a table",
		Action:  "Check that the content matches the file extension",
		Code:    "FILE003",
	}
	msgUnknownColumn = UserMessage{
		Message: "A selected column is not in the file",
		Action:  "Choose columns from the file's header row",
		Code:    "XFM001",
	}
	msgUnknownFormat = UserMessage{
		Message: "Unknown export format",
		Action:  "Choose csv or xlsx",
		Code:    "XFM002",
	}
	msgNotEnoughNumeric = UserMessage{
		Message: "Not enough numeric data for visualization",
		Action:  "A chart needs at least two numeric columns",
		Code:    "VIS001",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or fewer files per batch",
		Code:    "UPL003",
	}
)

// sentinelMessages is checked in order with errors.Is.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrUnsupportedFormat, msgUnsupported},
	{ErrUnknownColumn, msgUnknownColumn},
	{ErrUnknownFormat, msgUnknownFormat},
	{ErrNotEnoughNumeric, msgNotEnoughNumeric},
	{ErrTooManyUploads, msgBusy},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that arrive without a sentinel, such as
// parse failure details and messages built by the web layer.
var errorPatterns = []errorPattern{
	{
		pattern: "binary content",
		msg: UserMessage{
			Message: "The file contains binary data",
			Action:  "Upload a plain-text CSV or an Excel workbook",
			Code:    "FILE006",
		},
	},
	{
		pattern: "no columns to parse",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Add a header row and at least one data row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "fields, header has",
		msg: UserMessage{
			Message: "A row has more fields than the header",
			Action:  "Check for unquoted commas in your data",
			Code:    "FILE007",
		},
	},
	{pattern: "parse failure", msg: msgParseFailure},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or Excel file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "Too many files in one upload",
			Action:  "Upload fewer files at a time",
			Code:    "FILE008",
		},
	},
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "request body too large", msg: msgFileTooLarge},
	{
		pattern: "invalid options",
		msg: UserMessage{
			Message: "The processing options are invalid",
			Action:  "Check the selected columns and export format",
			Code:    "UPL004",
		},
	},
	{pattern: "too many uploads", msg: msgBusy},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("select: %w", ErrUnknownColumn))
//	// msg.Code == "XFM001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	// Pattern details are more specific than the parse sentinel, so only
	// fall through to it when no pattern hits.
	errStr := strings.ToLower(err.Error())
	if !errors.Is(err, ErrParseFailure) {
		for _, sm := range sentinelMessages {
			if errors.Is(err, sm.err) {
				return sm.msg
			}
		}
	}
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	if errors.Is(err, ErrParseFailure) {
		return msgParseFailure
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
