package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/transformer/internal/core"
	"github.com/go-playground/validator/v10"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// errValidation wraps option payloads rejected by the validator.
var errValidation = errors.New("invalid options")

// validationError lists the offending fields by JSON name.
type validationError struct {
	Fields map[string]string
}

func (e *validationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, tag := range e.Fields {
		parts = append(parts, f+" failed "+tag)
	}
	return fmt.Sprintf("%v: %s", errValidation, strings.Join(parts, ", "))
}

func (e *validationError) Unwrap() error { return errValidation }

// parseUploadForm bounds the request body and parses the multipart form.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxRequestSize())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large: limit %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}

// readFiles loads every part named field. Files over the size limit are
// returned with their Size and no Data so the pipeline reports them without
// the whole batch failing.
func (s *Server) readFiles(r *http.Request, field string) ([]core.UploadedFile, error) {
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[field]
	}
	if len(headers) == 0 {
		return nil, errors.New("no file provided")
	}
	if limit := s.cfg.Upload.MaxFiles; limit > 0 && len(headers) > limit {
		return nil, fmt.Errorf("too many files: %d uploaded, limit %d", len(headers), limit)
	}

	files := make([]core.UploadedFile, 0, len(headers))
	for _, h := range headers {
		uf := core.UploadedFile{Name: h.Filename, Size: h.Size}
		if h.Size <= s.cfg.Upload.MaxFileSize {
			data, err := readPart(h, s.cfg.Upload.MaxFileSize)
			if err != nil && !errors.Is(err, core.ErrFileTooLarge) {
				return nil, fmt.Errorf("read %s: %w", h.Filename, err)
			}
			uf.Data = data
		}
		files = append(files, uf)
	}
	return files, nil
}

func readPart(h *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.ReadAllLimited(f, limit)
}

// batchOptions reads the "options" field as JSON BatchOptions. Without it,
// the plain form fields build the default options.
func (s *Server) batchOptions(r *http.Request) (core.BatchOptions, error) {
	var opts core.BatchOptions
	if raw := strings.TrimSpace(r.FormValue("options")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			return opts, fmt.Errorf("%w: %v", errValidation, err)
		}
	} else {
		o, err := formOptions(r)
		if err != nil {
			return opts, err
		}
		opts.Default = o
	}
	return opts, s.validateStruct(opts)
}

// singleOptions is batchOptions for one file; a "format" form field
// overrides the format in the JSON payload.
func (s *Server) singleOptions(r *http.Request) (core.Options, error) {
	var opts core.Options
	if raw := strings.TrimSpace(r.FormValue("options")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			return opts, fmt.Errorf("%w: %v", errValidation, err)
		}
	} else {
		o, err := formOptions(r)
		if err != nil {
			return opts, err
		}
		opts = o
	}
	if f := r.FormValue("format"); f != "" {
		opts.Format = f
	}
	return opts, s.validateStruct(opts)
}

// formOptions builds Options from HTML form fields: checkboxes for the
// flags, a comma list of columns, and "old=new" rename lines.
func formOptions(r *http.Request) (core.Options, error) {
	o := core.Options{
		Deduplicate: checked(r.FormValue("deduplicate")),
		FillMissing: checked(r.FormValue("fill_missing")),
		Visualize:   checked(r.FormValue("visualize")),
		Format:      strings.TrimSpace(r.FormValue("format")),
	}
	for _, c := range strings.Split(r.FormValue("columns"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			o.Columns = append(o.Columns, c)
		}
	}
	rename, err := core.ParseRenamePairs(strings.Split(r.FormValue("rename"), "\n"))
	if err != nil {
		return o, fmt.Errorf("%w: %v", errValidation, err)
	}
	o.Rename = rename
	return o, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errValidation, err)
	}
	ve := &validationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Namespace()] = fe.Tag()
	}
	return ve
}
