package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/highlights-cli/internal/spatial"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProcessSingle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"project_id"`
		Force     bool   `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	result, err := s.svc.ProcessProject(r.Context(), req.ProjectID, req.Force)
	if err != nil {
		if errors.Is(err, spatial.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		zap.L().Error("process single failed",
			zap.String("project_id", req.ProjectID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProcessMultiple(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectIDs  []string `json:"project_ids"`
		Concurrency int      `json:"concurrency"`
		Force       bool     `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ProjectIDs) == 0 {
		writeError(w, http.StatusBadRequest, "project_ids is required")
		return
	}

	result, err := s.svc.ProcessBatch(r.Context(), req.ProjectIDs, req.Concurrency, req.Force)
	if err != nil {
		zap.L().Error("process multiple failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	highlights, err := s.svc.ListHighlights(r.Context(), projectID)
	if err != nil {
		zap.L().Error("list highlights failed",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project_id": projectID,
		"highlights": highlights,
		"count":      len(highlights),
	})
}
