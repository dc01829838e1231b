package core

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// numCol builds a numeric column; NaN values become missing cells.
func numCol(name string, vals ...float64) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Number(v)
	}
	return Column{Name: name, Kind: ColumnNumeric, Cells: cells}
}

func textCol(name string, vals ...string) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Text(v)
	}
	return Column{Name: name, Kind: ColumnText, Cells: cells}
}

func TestPreview(t *testing.T) {
	vals := make([]float64, 12)
	for i := range vals {
		vals[i] = float64(i)
	}
	tbl := MustTable(numCol("n", vals...))

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"default", 0, DefaultPreviewRows},
		{"negative uses default", -1, DefaultPreviewRows},
		{"explicit", 3, 3},
		{"larger than table", 50, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Preview(tbl, tt.n)
			if p.NumRows() != tt.want {
				t.Errorf("Preview(%d) rows = %d, want %d", tt.n, p.NumRows(), tt.want)
			}
			if p.NumCols() != 1 {
				t.Errorf("Preview(%d) cols = %d, want 1", tt.n, p.NumCols())
			}
		})
	}

	if tbl.NumRows() != 12 {
		t.Errorf("Preview modified the source table")
	}
}

func TestDescribe(t *testing.T) {
	tbl := MustTable(
		textCol("name", "a", "b", "c", "d", "e"),
		numCol("v", 1, 2, 3, 4, math.NaN()),
		numCol("one", 7, math.NaN(), math.NaN(), math.NaN(), math.NaN()),
		numCol("none", math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()),
	)

	got := Describe(tbl)
	if len(got) != 3 {
		t.Fatalf("Describe returned %d summaries, want 3", len(got))
	}

	v := got[0]
	if v.Column != "v" || v.Count != 4 {
		t.Errorf("v: column=%q count=%d", v.Column, v.Count)
	}
	checks := []struct {
		label string
		got   Float
		want  float64
	}{
		{"mean", v.Mean, 2.5},
		{"std", v.Std, math.Sqrt(5.0 / 3.0)},
		{"min", v.Min, 1},
		{"25%", v.Q25, 1.75},
		{"50%", v.Q50, 2.5},
		{"75%", v.Q75, 3.25},
		{"max", v.Max, 4},
	}
	for _, c := range checks {
		if math.Abs(float64(c.got)-c.want) > 1e-9 {
			t.Errorf("v %s = %v, want %v", c.label, c.got, c.want)
		}
	}

	one := got[1]
	if one.Count != 1 || float64(one.Mean) != 7 || !math.IsNaN(float64(one.Std)) {
		t.Errorf("one = %+v, want count 1, mean 7, std NaN", one)
	}

	none := got[2]
	if none.Count != 0 || !math.IsNaN(float64(none.Mean)) {
		t.Errorf("none = %+v, want count 0 and NaN stats", none)
	}

	b, err := json.Marshal(none)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"mean":null`) || !strings.Contains(string(b), `"25%":null`) {
		t.Errorf("NaN statistics should encode as null, got %s", b)
	}
}

func TestDescribeNoNumericColumns(t *testing.T) {
	if got := Describe(MustTable(textCol("a", "x"))); len(got) != 0 {
		t.Errorf("Describe = %v, want empty", got)
	}
}

func TestView(t *testing.T) {
	tbl := MustTable(textCol("k", "a", "b"), numCol("v", 1, math.NaN()))
	b, err := json.Marshal(View(tbl))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"columns":[{"name":"k","kind":"text"},{"name":"v","kind":"numeric"}],"rows":[["a",1],["b",null]]}`
	if string(b) != want {
		t.Errorf("View JSON = %s, want %s", b, want)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		q      float64
		want   float64
	}{
		{"single value", []float64{7}, 0.25, 7},
		{"lower quartile interpolates", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"median of even count", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"exact rank", []float64{10, 20, 30, 40, 50}, 0.75, 40},
		{"minimum", []float64{-3, 0, 9}, 0, -3},
		{"maximum", []float64{-3, 0, 9}, 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantile(tt.sorted, tt.q); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("quantile(%v, %v) = %v, want %v", tt.sorted, tt.q, got, tt.want)
			}
		})
	}
}
