package core

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain decimal number.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingTokens are cell values read as missing rather than text.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"#N/A": true,
	"#NA":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"null": true,
	"NULL": true,
	"None": true,
	"<NA>": true,
}

// CellKind tags the value held by a Cell.
type CellKind uint8

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// Cell is a single table value: missing, a number, or text.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// Missing returns a missing cell.
func Missing() Cell { return Cell{Kind: CellMissing} }

// Number returns a numeric cell. NaN is stored as missing.
func Number(f float64) Cell {
	if math.IsNaN(f) {
		return Missing()
	}
	return Cell{Kind: CellNumber, Num: f}
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: CellText, Str: s} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// Float returns the numeric value, or NaN for non-numeric cells.
func (c Cell) Float() float64 {
	if c.Kind == CellNumber {
		return c.Num
	}
	return math.NaN()
}

// String renders the cell the way it is written to CSV.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return formatNumber(c.Num)
	case CellText:
		return c.Str
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same value.
// Missing equals missing, and 0 equals -0.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num == o.Num
	case CellText:
		return c.Str == o.Str
	default:
		return true
	}
}

// MarshalJSON encodes missing cells as null, numbers as JSON numbers, and
// text as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return Float(c.Num).MarshalJSON()
	case CellText:
		return json.Marshal(c.Str)
	default:
		return []byte("null"), nil
	}
}

// parseRaw classifies a raw string from a file. It reports whether the value
// is missing and, when it is a number, its value.
func parseRaw(raw string) (missing bool, num float64, isNum bool) {
	if missingTokens[raw] {
		return true, 0, false
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return true, 0, false
	}
	if !numericRegex.MatchString(trimmed) {
		return false, 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return false, 0, false
	}
	return false, f, true
}

// formatNumber renders a float in its shortest round-trip form, avoiding
// exponents for ordinary magnitudes.
func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-4 && abs < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}
