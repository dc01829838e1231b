package templates

import (
	"context"
	"encoding/base64"
	"math"
	"strconv"

	"github.com/JonMunkholm/transformer/internal/core"
	"github.com/a-h/templ"
)

// BatchResult renders every file report of a batch in upload order.
func BatchResult(b *core.BatchReport) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<div class="batch" data-batch-id="%s">`, templ.EscapeString(b.ID))
		h.rawf(`<p class="batch-summary">%d file(s), %d failed.</p>`, len(b.Files), b.Failed)
		for _, f := range b.Files {
			if h.err != nil {
				return
			}
			h.err = FileResult(f).Render(ctx, h.w)
		}
		h.raw(`</div>`)
	})
}

// FileResult renders one file's messages, tables, chart and download link.
func FileResult(f *core.FileReport) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.rawf(`<article class="file-report status-%s">`, templ.EscapeString(f.Status))
		h.raw(`<h2>`)
		h.text(f.FileName)
		h.raw(` <small>`)
		h.text(humanSize(f.Size))
		h.raw(`</small></h2>`)

		for _, m := range f.Messages {
			h.rawf(`<div class="%s">`, alertClass(m.Level))
			h.text(m.Text)
			if m.Code != "" {
				h.raw(` <small class="code">`)
				h.text(m.Code)
				h.raw(`</small>`)
			}
			h.raw(`</div>`)
		}

		if f.Preview != nil {
			h.rawf(`<h3>Preview <small>%d rows total</small></h3>`, f.Rows)
			writeTable(h, *f.Preview)
		}
		if len(f.Summary) > 0 {
			h.raw(`<h3>Summary</h3>`)
			writeSummary(h, f.Summary)
		}
		if f.Result != nil && f.OK() {
			h.rawf(`<h3>Result <small>%d rows</small></h3>`, f.ResultRows)
			writeTable(h, *f.Result)
		}
		if f.Chart != nil {
			h.raw(`<h3>Chart</h3>`)
			writeChart(h, f.Chart)
		}
		if f.Export != nil {
			h.rawf(`<a class="download" download="%s" href="data:%s;base64,%s">Download `,
				templ.EscapeString(f.Export.FileName),
				templ.EscapeString(f.Export.MIME),
				base64.StdEncoding.EncodeToString(f.Export.Data),
			)
			h.text(f.Export.FileName)
			h.raw(`</a>`)
		}
		h.raw(`</article>`)
	})
}

func writeTable(h *htmlWriter, v core.TableView) {
	h.raw(`<table><thead><tr>`)
	for _, c := range v.Columns {
		h.rawf(`<th title="%s">`, c.Kind)
		h.text(c.Name)
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)
	for _, row := range v.Rows {
		h.raw(`<tr>`)
		for _, cell := range row {
			if cell.IsMissing() {
				h.raw(`<td class="missing">NaN</td>`)
				continue
			}
			h.raw(`<td>`)
			h.text(cell.String())
			h.raw(`</td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}

func writeSummary(h *htmlWriter, rows []core.ColumnSummary) {
	h.raw(`<table class="summary"><thead><tr><th></th>`)
	for _, s := range rows {
		h.raw(`<th>`)
		h.text(s.Column)
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)

	stats := []struct {
		label string
		get   func(core.ColumnSummary) float64
	}{
		{"count", func(s core.ColumnSummary) float64 { return float64(s.Count) }},
		{"mean", func(s core.ColumnSummary) float64 { return float64(s.Mean) }},
		{"std", func(s core.ColumnSummary) float64 { return float64(s.Std) }},
		{"min", func(s core.ColumnSummary) float64 { return float64(s.Min) }},
		{"25%", func(s core.ColumnSummary) float64 { return float64(s.Q25) }},
		{"50%", func(s core.ColumnSummary) float64 { return float64(s.Q50) }},
		{"75%", func(s core.ColumnSummary) float64 { return float64(s.Q75) }},
		{"max", func(s core.ColumnSummary) float64 { return float64(s.Max) }},
	}
	for _, st := range stats {
		h.rawf(`<tr><th>%s</th>`, templ.EscapeString(st.label))
		for _, s := range rows {
			h.rawf(`<td>%s</td>`, formatStat(st.get(s)))
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

const (
	chartWidth  = 640
	chartHeight = 240
	chartPad    = 8
)

// writeChart draws both series as grouped SVG bars, one group per row,
// rising from zero on a shared y-axis. Missing values leave a gap.
func writeChart(h *htmlWriter, ch *core.Chart) {
	lo, hi := 0.0, 0.0
	for _, p := range ch.Points {
		for _, v := range p.Values {
			if f := float64(v); !math.IsNaN(f) && !math.IsInf(f, 0) {
				lo, hi = math.Min(lo, f), math.Max(hi, f)
			}
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	slot := float64(chartWidth-2*chartPad) / float64(max(len(ch.Points), 1))
	barW := slot * 0.8 / 2
	y := func(v float64) float64 {
		return chartPad + (hi-v)*float64(chartHeight-2*chartPad)/(hi-lo)
	}
	base := y(0)

	h.rawf(`<svg class="chart" viewBox="0 0 %d %d" role="img" aria-label="%s">`,
		chartWidth, chartHeight, templ.EscapeString(join(ch.Columns[:])))
	for _, p := range ch.Points {
		for s, v := range p.Values {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			top, bottom := math.Min(y(f), base), math.Max(y(f), base)
			x := chartPad + float64(p.Index)*slot + slot*0.1 + float64(s)*barW
			h.rawf(`<rect class="series-%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`,
				s, x, top, barW, bottom-top)
		}
	}
	h.rawf(`<line class="axis" x1="%d" y1="%.1f" x2="%d" y2="%.1f"/>`,
		chartPad, base, chartWidth-chartPad, base)
	h.raw(`</svg><p class="legend">`)
	for s, name := range ch.Columns {
		h.rawf(`<span class="series-%d">`, s)
		h.text(name)
		h.raw(`</span> `)
	}
	h.raw(`</p>`)
}
