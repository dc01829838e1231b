package core

import (
	"fmt"
	"strconv"
)

// ColumnKind is the inferred type of a column.
type ColumnKind uint8

const (
	ColumnText ColumnKind = iota
	ColumnNumeric
)

// String returns the kind name used in reports.
func (k ColumnKind) String() string {
	if k == ColumnNumeric {
		return "numeric"
	}
	return "text"
}

// MarshalText implements encoding.TextMarshaler.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Column is a named sequence of cells. Numeric columns hold only number or
// missing cells.
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Cell
}

// ColumnInfo describes a column without its data.
type ColumnInfo struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Table is an ordered set of columns with a uniform row count.
// Tables are treated as immutable: every stage returns a new Table.
type Table struct {
	columns []Column
	rows    int
}

// NewTable builds a table from columns, checking that every column has the
// same number of cells and that numeric columns hold no text.
func NewTable(columns []Column) (*Table, error) {
	t := &Table{columns: columns}
	for i, col := range columns {
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, len(col.Cells), t.rows)
		}
		if col.Kind == ColumnNumeric {
			for r, c := range col.Cells {
				if c.Kind == CellText {
					return nil, fmt.Errorf("numeric column %q holds text at row %d", col.Name, r)
				}
			}
		}
	}
	return t, nil
}

// MustTable is NewTable that panics on error. Intended for tests and
// literals known to be valid.
func MustTable(columns ...Column) *Table {
	t, err := NewTable(columns)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Columns returns the table's columns. Callers must not modify them.
func (t *Table) Columns() []Column { return t.columns }

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) Column { return t.columns[i] }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Info returns name and kind for every column.
func (t *Table) Info() []ColumnInfo {
	info := make([]ColumnInfo, len(t.columns))
	for i, c := range t.columns {
		info[i] = ColumnInfo{Name: c.Name, Kind: c.Kind}
	}
	return info
}

// Index returns the position of the named column, or -1.
// When a rename has produced duplicate names, the last column wins.
func (t *Table) Index(name string) int {
	for i := len(t.columns) - 1; i >= 0; i-- {
		if t.columns[i].Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i := t.Index(name)
	if i < 0 {
		return Column{}, false
	}
	return t.columns[i], true
}

// Row returns the cells of row r in column order.
func (t *Table) Row(r int) []Cell {
	row := make([]Cell, len(t.columns))
	for i, c := range t.columns {
		row[i] = c.Cells[r]
	}
	return row
}

// NumericIndexes returns the positions of numeric columns in column order.
func (t *Table) NumericIndexes() []int {
	var idx []int
	for i, c := range t.columns {
		if c.Kind == ColumnNumeric {
			idx = append(idx, i)
		}
	}
	return idx
}

// Equal reports whether two tables have the same columns, kinds, and cells.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
		for r := range c.Cells {
			if !c.Cells[r].Equal(oc.Cells[r]) {
				return false
			}
		}
	}
	return true
}

// withColumns returns a table sharing t's row count with new columns.
func (t *Table) withColumns(cols []Column) *Table {
	rows := t.rows
	if len(cols) == 0 {
		rows = 0
	}
	return &Table{columns: cols, rows: rows}
}

// FromRecords builds a table from a header row and string records, inferring
// column kinds. Short records are padded with missing cells; a record longer
// than the header is an error. Blank or repeated header names are made
// unique ("Unnamed: 2", "price.1").
func FromRecords(header []string, records [][]string) (*Table, error) {
	return fromRecords(header, records, nil)
}

// fromRecords is FromRecords with an optional textOnly(r, c) that marks
// fields which must never be read as numbers.
func fromRecords(header []string, records [][]string, textOnly func(r, c int) bool) (*Table, error) {
	names := normalizeHeader(header)
	width := len(names)

	for i, rec := range records {
		if len(rec) > width {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), width)
		}
	}

	cols := make([]Column, width)
	for c := 0; c < width; c++ {
		cols[c] = inferColumn(names[c], records, c, textOnly)
	}

	t := &Table{columns: cols, rows: len(records)}
	if width == 0 {
		t.rows = 0
	}
	return t, nil
}

// inferColumn converts field c of every record into cells. The column is
// numeric when every present value is a number, or when the column has rows
// but no present values at all. Fields textOnly marks are never numbers.
func inferColumn(name string, records [][]string, c int, textOnly func(r, c int) bool) Column {
	cells := make([]Cell, len(records))
	numeric := true
	for r, rec := range records {
		raw := ""
		if c < len(rec) {
			raw = rec[c]
		}
		missing, f, isNum := parseRaw(raw)
		if isNum && textOnly != nil && textOnly(r, c) {
			isNum = false
		}
		switch {
		case missing:
			cells[r] = Missing()
		case isNum:
			cells[r] = Number(f)
		default:
			cells[r] = Text(raw)
			numeric = false
		}
	}

	if len(records) == 0 {
		return Column{Name: name, Kind: ColumnText, Cells: cells}
	}
	if numeric {
		return Column{Name: name, Kind: ColumnNumeric, Cells: cells}
	}

	// Mixed column: keep numbers as their original text.
	for r, rec := range records {
		if cells[r].Kind == CellNumber {
			cells[r] = Text(rec[c])
		}
	}
	return Column{Name: name, Kind: ColumnText, Cells: cells}
}

// normalizeHeader names blank headers "Unnamed: i" and suffixes repeats
// with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := h
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if seen[name] {
			base := name
			for n := 1; ; n++ {
				candidate := base + "." + strconv.Itoa(n)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		names[i] = name
	}
	return names
}
