package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleDeleteDocument removes a document's records from the index and
// releases its content hash so the same content can be uploaded again.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	if err := s.orchestrator.DeleteDocument(r.Context(), userID, docID); err != nil {
		s.log.Error("delete document failed", "doc_id", docID, "user_id", userID, "error", err)
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":  docID,
		"deleted": true,
	})
}
