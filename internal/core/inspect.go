package core

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// DefaultPreviewRows is how many rows Preview shows when no count is set.
const DefaultPreviewRows = 5

// Preview returns the first n rows of t with every column. n <= 0 falls back
// to DefaultPreviewRows; a table shorter than n is returned whole.
func Preview(t *Table, n int) *Table {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if n >= t.rows {
		return t
	}
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = Column{Name: c.Name, Kind: c.Kind, Cells: c.Cells[:n:n]}
	}
	return &Table{columns: cols, rows: n}
}

// ColumnSummary holds descriptive statistics for one numeric column.
// Statistics that are undefined for the data are NaN and encode as null.
type ColumnSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	Std    Float  `json:"std"`
	Min    Float  `json:"min"`
	Q25    Float  `json:"25%"`
	Q50    Float  `json:"50%"`
	Q75    Float  `json:"75%"`
	Max    Float  `json:"max"`
}

// Describe summarises every numeric column of t in column order. Missing
// cells are excluded. Std is the sample standard deviation and percentiles
// use linear interpolation between closest ranks.
func Describe(t *Table) []ColumnSummary {
	var out []ColumnSummary
	for _, i := range t.NumericIndexes() {
		c := t.columns[i]
		out = append(out, summarize(c.Name, presentValues(c)))
	}
	return out
}

func presentValues(c Column) []float64 {
	vals := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Kind == CellNumber {
			vals = append(vals, cell.Num)
		}
	}
	return vals
}

func summarize(name string, vals []float64) ColumnSummary {
	nan := Float(math.NaN())
	s := ColumnSummary{
		Column: name, Count: len(vals),
		Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}
	if len(vals) == 0 {
		return s
	}

	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	m, std := stat.MeanStdDev(vals, nil)
	s.Mean = Float(m)
	if len(vals) > 1 {
		s.Std = Float(std)
	}
	s.Min = Float(sorted[0])
	s.Q25 = Float(quantile(sorted, 0.25))
	s.Q50 = Float(quantile(sorted, 0.50))
	s.Q75 = Float(quantile(sorted, 0.75))
	s.Max = Float(sorted[len(sorted)-1])
	return s
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// quantile interpolates linearly on sorted data at position q*(n-1)
// (Hyndman-Fan type 7). stat.Quantile's LinInterp is type 4 and puts the
// quartiles of 1..4 at 1, 2 and 3 rather than 1.75, 2.5 and 3.25.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TableView is the JSON shape of a table: column metadata plus row-major
// cells.
type TableView struct {
	Columns []ColumnInfo `json:"columns"`
	Rows    [][]Cell     `json:"rows"`
}

// View converts t to its JSON shape.
func View(t *Table) TableView {
	v := TableView{Columns: t.Info(), Rows: make([][]Cell, t.rows)}
	for r := 0; r < t.rows; r++ {
		v.Rows[r] = t.Row(r)
	}
	return v
}
