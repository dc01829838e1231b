package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/transformer/internal/core"
)

// printReport writes a human-readable report for every file.
func printReport(w io.Writer, report *core.BatchReport) {
	for i, f := range report.Files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", f.FileName)
		for _, m := range f.Messages {
			if m.Code != "" {
				fmt.Fprintf(w, "[%s] %s (%s)\n", m.Level, m.Text, m.Code)
			} else {
				fmt.Fprintf(w, "[%s] %s\n", m.Level, m.Text)
			}
		}
		if f.Preview != nil {
			fmt.Fprintf(w, "\nPreview (%d rows total)\n", f.Rows)
			printTable(w, *f.Preview)
		}
		if len(f.Summary) > 0 {
			fmt.Fprintln(w, "\nSummary")
			printSummary(w, f.Summary)
		}
		if f.Chart != nil {
			fmt.Fprintf(w, "\nChart: %s vs %s over %d rows\n", f.Chart.Columns[0], f.Chart.Columns[1], len(f.Chart.Points))
		}
	}
}

func printTable(w io.Writer, v core.TableView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	names := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		names[i] = c.Name
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	for _, row := range v.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if c.IsMissing() {
				cells[i] = "NaN"
			} else {
				cells[i] = c.String()
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, rows []core.ColumnSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Column, s.Count,
			stat(s.Mean), stat(s.Std), stat(s.Min),
			stat(s.Q25), stat(s.Q50), stat(s.Q75), stat(s.Max),
		)
	}
	_ = tw.Flush()
}

func stat(f core.Float) string {
	v := float64(f)
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
