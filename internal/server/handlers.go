package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/layout"
	"github.com/labelforge/labelforge/pkg/store"
)

// collectionName resolves which named collection a request targets.
func collectionName(r *http.Request) string {
	if name := r.URL.Query().Get("collection"); name != "" {
		return name
	}
	return store.DefaultCollection
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	col, err := s.store.Load(r.Context(), collectionName(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Stored validity may predate a format change in the config.
	col.Revalidate(s.cfg.Label.Format)
	writeJSON(w, http.StatusOK, col)
}

// addRecordRequest is the POST /api/records body.
type addRecordRequest struct {
	Payload string `json:"payload"`
	Caption string `json:"caption,omitempty"`
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var req addRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeParseFailed, err, "decode request body"))
		return
	}
	if req.Payload == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidPayload, "payload must not be empty"))
		return
	}

	ctx := r.Context()
	name := collectionName(r)
	col, err := s.store.Load(ctx, name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// An unencodable payload still becomes a record, flagged invalid, so
	// the client can show it for correction.
	rec := col.Add(req.Payload, req.Caption, s.cfg.Label.Format)
	if err := s.store.Save(ctx, name, col); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidPayload, "position must be a number"))
		return
	}

	ctx := r.Context()
	name := collectionName(r)
	col, err := s.store.Load(ctx, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := col.Remove(position); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(ctx, name, col); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := collectionName(r)
	col, err := s.store.Load(ctx, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	col.Clear()
	if err := s.store.Save(ctx, name, col); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	grid := layout.Compute(s.cfg.Page, s.cfg.Label, s.cfg.LayoutOptions())
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	col, err := s.store.Load(ctx, collectionName(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	col.Revalidate(s.cfg.Label.Format)

	// Buffer the whole document so an export failure can still produce a
	// clean JSON error instead of a truncated body.
	var buf bytes.Buffer
	if err := s.exporter.Document(ctx, &buf, col, s.cfg.Label, s.cfg.Page, s.cfg.LayoutOptions()); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="labels.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExportArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	col, err := s.store.Load(ctx, collectionName(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	col.Revalidate(s.cfg.Label.Format)

	var buf bytes.Buffer
	if err := s.exporter.Archive(ctx, &buf, col, s.cfg.Label); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="labels.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// writeError maps an error code to an HTTP status and writes the JSON
// body. Unknown errors are internal.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidPayload, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidUnit, errors.ErrCodeInvalidConfig,
		errors.ErrCodeParseFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeNoValidRecords, errors.ErrCodeNoCapacity:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
