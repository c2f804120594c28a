package api

import "net/http"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"extraction":  s.latency.Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
