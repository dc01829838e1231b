// Package templates holds the HTML components served by the web package.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// text writes s escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// component adapts a body function to templ.Component.
func component(body func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		body(ctx, h)
		return h.err
	})
}

// ErrorAlert is the partial swapped in by HTMX when a request fails.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="alert alert-error" role="alert">`)
		h.raw(`<strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<small class="code">Code: `)
			h.text(code)
			h.raw(`</small>`)
		}
		h.raw(`</div>`)
	})
}

func alertClass(level string) string {
	switch level {
	case "success":
		return "alert alert-success"
	case "warning":
		return "alert alert-warning"
	default:
		return "alert alert-error"
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func join(parts []string) string {
	return strings.Join(parts, ", ")
}
