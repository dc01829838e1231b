package core

import (
	"math"
	"strconv"
	"strings"
)

// Deduplicate drops every row equal to an earlier row across all columns,
// keeping first occurrences in their original order. Missing equals missing.
// It returns the new table and the number of rows removed.
func Deduplicate(t *Table) (*Table, int) {
	seen := make(map[string]struct{}, t.rows)
	keep := make([]int, 0, t.rows)
	var key strings.Builder
	for r := 0; r < t.rows; r++ {
		key.Reset()
		for _, c := range t.columns {
			writeCellKey(&key, c.Cells[r])
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, r)
	}

	removed := t.rows - len(keep)
	if removed == 0 {
		return t, 0
	}

	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cells := make([]Cell, len(keep))
		for j, r := range keep {
			cells[j] = c.Cells[r]
		}
		cols[i] = Column{Name: c.Name, Kind: c.Kind, Cells: cells}
	}
	return &Table{columns: cols, rows: len(keep)}, removed
}

// writeCellKey appends an unambiguous encoding of c: a kind tag, then a
// length-prefixed value.
func writeCellKey(b *strings.Builder, c Cell) {
	switch c.Kind {
	case CellNumber:
		n := c.Num
		if n == 0 {
			n = 0 // folds -0 into 0
		}
		b.WriteByte('n')
		b.WriteString(strconv.FormatUint(math.Float64bits(n), 16))
		b.WriteByte(';')
	case CellText:
		b.WriteByte('t')
		b.WriteString(strconv.Itoa(len(c.Str)))
		b.WriteByte(':')
		b.WriteString(c.Str)
	default:
		b.WriteByte('m')
	}
}

// FillMissing replaces missing cells in numeric columns with the mean of
// that column's present values. Text columns are untouched. A column with no
// present values has a NaN mean, so its cells stay missing. It returns the
// new table and the number of cells filled.
func FillMissing(t *Table) (*Table, int) {
	filled := 0
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c
		if c.Kind != ColumnNumeric {
			continue
		}
		m := mean(presentValues(c))
		if math.IsNaN(m) {
			continue
		}
		var cells []Cell
		for r, cell := range c.Cells {
			if !cell.IsMissing() {
				continue
			}
			if cells == nil {
				cells = make([]Cell, len(c.Cells))
				copy(cells, c.Cells)
			}
			cells[r] = Number(m)
			filled++
		}
		if cells != nil {
			cols[i] = Column{Name: c.Name, Kind: c.Kind, Cells: cells}
		}
	}
	if filled == 0 {
		return t, 0
	}
	return &Table{columns: cols, rows: t.rows}, filled
}
