package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/mdrecords/internal/records"
	"github.com/dgallion1/mdrecords/internal/source"
)

type recordsRequest struct {
	Markdown string `json:"markdown"`
}

// handleRecords extracts records from markdown sent as the raw body or as
// JSON {"markdown": "..."}.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes+1024) // room for JSON framing
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxDocumentBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	markdown := string(body)
	if isJSON(r.Header.Get("Content-Type")) {
		var req recordsRequest
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}
		markdown = req.Markdown
	}
	if int64(len(markdown)) > s.cfg.MaxDocumentBytes {
		jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxDocumentBytes), http.StatusRequestEntityTooLarge)
		return
	}

	recs, ok := s.extract(w, markdown)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": recs})
}

// handleExtract converts an uploaded file to markdown by its extension and
// extracts its records synchronously.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	conv, err := source.ForFile(filename, source.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := conv.Convert(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("convert failed", "filename", filename, "error", err)
		jsonError(w, "convert: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if int64(len(doc.Markdown)) > s.cfg.MaxDocumentBytes {
		jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxDocumentBytes), http.StatusRequestEntityTooLarge)
		return
	}

	recs, ok := s.extract(w, doc.Markdown)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"title":    doc.Title,
		"records":  recs,
	})
}

// extract runs the engine and records its latency. On failure it writes the
// error response and returns false.
func (s *Server) extract(w http.ResponseWriter, markdown string) ([]records.Record, bool) {
	start := time.Now()
	recs, err := records.Extract(markdown)
	if err != nil {
		var perr *records.ParseError
		if errors.As(err, &perr) && errors.Is(err, records.ErrInvalidUTF8) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": perr.Error(), "line": perr.Line})
			return nil, false
		}
		s.log.Error("extraction failed", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	s.latency.Observe(time.Since(start), len(recs))
	return recs, true
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
