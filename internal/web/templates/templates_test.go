package templates

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/JonMunkholm/transformer/internal/core"
)

func renderString(t *testing.T, f func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestErrorAlertEscapes(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return ErrorAlert("bad <input>", "retry & wait", "FILE003").Render(context.Background(), b)
	})
	for _, want := range []string{"bad &lt;input&gt;", "retry &amp; wait", "Code: FILE003", `role="alert"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestFileResult(t *testing.T) {
	rep := &core.FileReport{
		FileName: "sales.csv",
		Size:     2048,
		Status:   core.StatusOK,
		Messages: []core.StatusMessage{
			{Level: core.LevelSuccess, Text: "File sales.csv uploaded successfully!"},
			{Level: core.LevelWarning, Text: "sales.csv: Not enough numeric data", Code: "VIS001"},
		},
		Rows: 2,
		Preview: &core.TableView{
			Columns: []core.ColumnInfo{{Name: "v", Kind: core.ColumnNumeric}},
			Rows:    [][]core.Cell{{core.Number(1)}, {core.Missing()}},
		},
		Summary: []core.ColumnSummary{{
			Column: "v", Count: 1, Mean: 1,
			Std: core.Float(math.NaN()), Min: 1, Q25: 1, Q50: 1, Q75: 1, Max: 1,
		}},
	}

	out := renderString(t, func(b *bytes.Buffer) error {
		return FileResult(rep).Render(context.Background(), b)
	})
	for _, want := range []string{
		"2.0 KB",
		`class="alert alert-success"`,
		`class="alert alert-warning"`,
		"VIS001",
		`<td class="missing">NaN</td>`,
		"<td>1.000000</td>",
		"<td>NaN</td>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteChartBars(t *testing.T) {
	nan := core.Float(math.NaN())
	tests := []struct {
		name       string
		points     []core.ChartPoint
		wantSeries [2]int
	}{
		{
			name: "missing value leaves a gap",
			points: []core.ChartPoint{
				{Index: 0, Values: [2]core.Float{1, 2}},
				{Index: 1, Values: [2]core.Float{nan, 3}},
				{Index: 2, Values: [2]core.Float{4, 5}},
			},
			wantSeries: [2]int{2, 3},
		},
		{
			name: "negative values",
			points: []core.ChartPoint{
				{Index: 0, Values: [2]core.Float{-4, 2}},
				{Index: 1, Values: [2]core.Float{3, -1}},
			},
			wantSeries: [2]int{2, 2},
		},
		{
			name:   "no rows",
			points: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeChart(&htmlWriter{w: &buf}, &core.Chart{Columns: [2]string{"a", "b"}, Points: tt.points})
			out := buf.String()

			for s, want := range tt.wantSeries {
				if got := strings.Count(out, fmt.Sprintf(`<rect class="series-%d"`, s)); got != want {
					t.Errorf("series-%d bars = %d, want %d", s, got, want)
				}
			}
			if strings.Contains(out, `height="-`) {
				t.Errorf("negative bar height: %s", out)
			}
			if strings.Contains(out, "NaN") {
				t.Errorf("NaN in svg: %s", out)
			}
			if !strings.Contains(out, `aria-label="a, b"`) {
				t.Errorf("missing aria label: %s", out)
			}
			if !strings.Contains(out, `<span class="series-1">b</span>`) {
				t.Errorf("missing legend: %s", out)
			}
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := humanSize(tt.n); got != tt.want {
			t.Errorf("humanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
