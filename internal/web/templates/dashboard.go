package templates

import (
	"context"

	"github.com/a-h/templ"
)

// DashboardData feeds the upload page.
type DashboardData struct {
	MaxFiles    int
	MaxFileSize int64
}

// Dashboard renders the upload form. Submitting it posts to /api/process
// and swaps the batch report into #results.
func Dashboard(d DashboardData) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Data Transformer</title>`)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="/static/app.js" defer></script>`)
		h.raw(`</head><body><main>`)
		h.raw(`<h1>Data Transformer</h1>`)
		h.raw(`<p>Upload CSV or Excel files to preview, clean, and convert them.</p>`)

		h.raw(`<form id="upload-form" action="/api/process" method="post" enctype="multipart/form-data">`)
		h.raw(`<fieldset><legend>Files</legend>`)
		h.raw(`<input type="file" name="files" accept=".csv,.xlsx" multiple required>`)
		h.rawf(`<small>Up to %d files, %s each.</small>`, d.MaxFiles, templ.EscapeString(humanSize(d.MaxFileSize)))
		h.raw(`</fieldset>`)

		h.raw(`<fieldset><legend>Cleaning</legend>`)
		h.raw(`<label><input type="checkbox" name="deduplicate"> Remove duplicates</label>`)
		h.raw(`<label><input type="checkbox" name="fill_missing"> Fill missing values with column mean</label>`)
		h.raw(`</fieldset>`)

		h.raw(`<fieldset><legend>Columns</legend>`)
		h.raw(`<label>Keep columns (comma separated, blank for all) <input type="text" name="columns"></label>`)
		h.raw(`<label>Rename (one old=new per line) <textarea name="rename" rows="3"></textarea></label>`)
		h.raw(`</fieldset>`)

		h.raw(`<fieldset><legend>Output</legend>`)
		h.raw(`<label><input type="checkbox" name="visualize"> Visualize data</label>`)
		h.raw(`<label>Convert to <select name="format">`)
		h.raw(`<option value="">No conversion</option><option value="csv">CSV</option><option value="xlsx">Excel</option>`)
		h.raw(`</select></label>`)
		h.raw(`</fieldset>`)

		h.raw(`<button type="submit">Process</button>`)
		h.raw(`</form>`)
		h.raw(`<section id="results" aria-live="polite"></section>`)
		h.raw(`</main></body></html>`)
	})
}
