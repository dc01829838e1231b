package core

import "fmt"

// Chart is a bar series of two numeric columns keyed by row index.
type Chart struct {
	Columns [2]string    `json:"columns"`
	Points  []ChartPoint `json:"points"`
}

// ChartPoint holds both series values for one row. Missing values are NaN
// and encode as null, leaving no bar.
type ChartPoint struct {
	Index  int      `json:"index"`
	Values [2]Float `json:"values"`
}

// ChartSeries plots the first two numeric columns of t, in column order,
// over every row. Fewer than two numeric columns fails with
// ErrNotEnoughNumeric.
func ChartSeries(t *Table) (*Chart, error) {
	idx := t.NumericIndexes()
	if len(idx) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughNumeric, len(idx))
	}
	x, y := t.columns[idx[0]], t.columns[idx[1]]

	ch := &Chart{
		Columns: [2]string{x.Name, y.Name},
		Points:  make([]ChartPoint, t.rows),
	}
	for r := 0; r < t.rows; r++ {
		ch.Points[r] = ChartPoint{
			Index:  r,
			Values: [2]Float{Float(x.Cells[r].Float()), Float(y.Cells[r].Float())},
		}
	}
	return ch, nil
}
