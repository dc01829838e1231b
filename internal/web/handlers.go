package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/transformer/internal/core"
	"github.com/JonMunkholm/transformer/internal/logging"
	"github.com/JonMunkholm/transformer/internal/web/templates"
	"github.com/go-chi/render"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string             `json:"status"`
	Time    time.Time          `json:"time"`
	Limiter core.LimiterStatus `json:"limiter"`
}

// handleDashboard renders the upload page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := templates.DashboardData{
		MaxFiles:    s.cfg.Upload.MaxFiles,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(page).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleHealth reports liveness and processing slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:  "ok",
		Time:    time.Now().UTC(),
		Limiter: s.service.UploadLimiterStatus(),
	})
}

// handleProcess runs a batch of uploaded files through the pipeline and
// returns one report per file. Per-file failures are inside the report; the
// request itself only fails on a malformed request or a busy server.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUploadForm(w, r); err != nil {
		respondError(w, r, err, requestStatus(err))
		return
	}
	files, err := s.readFiles(r, "files")
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	opts, err := s.batchOptions(r)
	if err != nil {
		s.respondValidation(w, r, err)
		return
	}

	ctx, cancel := s.batchContext(r.Context())
	defer cancel()

	report, err := s.service.ProcessBatch(ctx, files, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(r.Context(),
		"batch_id", report.ID,
		"files", len(report.Files),
		"failed", report.Failed,
	).Info("batch complete")

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.BatchResult(report).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render batch", "error", err)
		}
		return
	}
	render.JSON(w, r, report)
}

// handleConvert processes one file and streams the export as an attachment.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUploadForm(w, r); err != nil {
		respondError(w, r, err, requestStatus(err))
		return
	}
	files, err := s.readFiles(r, "file")
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(files) != 1 {
		respondError(w, r, errors.New("too many files: convert takes exactly one"), http.StatusBadRequest)
		return
	}
	opts, err := s.singleOptions(r)
	if err != nil {
		s.respondValidation(w, r, err)
		return
	}
	if strings.TrimSpace(opts.Format) == "" {
		respondError(w, r, fmt.Errorf("%w: format is required", core.ErrUnknownFormat), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.batchContext(r.Context())
	defer cancel()

	art, _, err := s.service.Convert(ctx, files[0], opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", art.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, art.FileName))
	http.ServeContent(w, r, art.FileName, time.Time{}, art.Reader())
}

// respondValidation answers 400 with the offending fields when known.
func (s *Server) respondValidation(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validationError
	if errors.As(err, &ve) && !isHTMX(r) && wantsJSON(r) {
		logging.FromContext(r.Context()).Warn("invalid options", "error", err)
		respondErrorJSON(w, r, core.MapError(err), http.StatusBadRequest, ve.Fields)
		return
	}
	respondError(w, r, err, http.StatusBadRequest)
}

// batchContext bounds processing by the configured upload timeout.
func (s *Server) batchContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Upload.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.cfg.Upload.Timeout)
}

func requestStatus(err error) int {
	if strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
