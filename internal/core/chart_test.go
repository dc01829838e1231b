package core

import (
	"errors"
	"math"
	"testing"
)

func TestChartSeries(t *testing.T) {
	tbl := MustTable(
		textCol("label", "a", "b", "c"),
		numCol("x", 1, 2, 3),
		numCol("y", 10, math.NaN(), 30),
		numCol("z", 0, 0, 0),
	)

	ch, err := ChartSeries(tbl)
	if err != nil {
		t.Fatalf("ChartSeries: %v", err)
	}
	if ch.Columns != [2]string{"x", "y"} {
		t.Errorf("Columns = %v, want [x y]", ch.Columns)
	}
	if len(ch.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(ch.Points))
	}
	if ch.Points[2].Index != 2 || ch.Points[2].Values != [2]Float{3, 30} {
		t.Errorf("point 2 = %+v", ch.Points[2])
	}
	if !math.IsNaN(float64(ch.Points[1].Values[1])) {
		t.Errorf("missing y should be NaN, got %v", ch.Points[1].Values[1])
	}
}

func TestChartSeriesNotEnoughNumeric(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
	}{
		{"no numeric", MustTable(textCol("a", "x"))},
		{"one numeric", MustTable(textCol("a", "x"), numCol("b", 1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ChartSeries(tt.table); !errors.Is(err, ErrNotEnoughNumeric) {
				t.Errorf("err = %v, want ErrNotEnoughNumeric", err)
			}
		})
	}
}
