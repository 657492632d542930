package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/models"
)

// analyticsDefaultDays is the summary window when the request does not give one.
const analyticsDefaultDays = 30

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.records.Sessions()
	if err != nil {
		s.logger.Error("failed to read sessions", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleReplaceSessions(w http.ResponseWriter, r *http.Request) {
	var sessions []models.Session
	if err := json.NewDecoder(r.Body).Decode(&sessions); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.New().String()
		}
	}
	if err := s.records.SaveSessions(sessions); err != nil {
		s.logger.Error("failed to save sessions", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.rebuildAsync()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "saved", "count": len(sessions)})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.records.Jobs()
	if err != nil {
		s.logger.Error("failed to read jobs", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleReplaceJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []models.Job
	if err := json.NewDecoder(r.Body).Decode(&jobs); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.New().String()
		}
	}
	if err := s.records.SaveJobs(jobs); err != nil {
		s.logger.Error("failed to save jobs", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.rebuildAsync()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "saved", "count": len(jobs)})
}

func (s *Server) handleListTrustedSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.records.TrustedSources()
	if err != nil {
		s.logger.Error("failed to read trusted sources", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, sources)
}

func (s *Server) handleReplaceTrustedSources(w http.ResponseWriter, r *http.Request) {
	var sources []models.TrustedSource
	if err := json.NewDecoder(r.Body).Decode(&sources); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range sources {
		if sources[i].ID == "" {
			sources[i].ID = uuid.New().String()
		}
	}
	// Trusted sources are not part of the retrieval corpus; no rebuild.
	if err := s.records.SaveTrustedSources(sources); err != nil {
		s.logger.Error("failed to save trusted sources", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "saved", "count": len(sources)})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := s.records.Feedback()
	if err != nil {
		s.logger.Error("failed to read feedback", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, feedback)
}

func (s *Server) handleFeedbackCount(w http.ResponseWriter, r *http.Request) {
	feedback, err := s.records.Feedback()
	if err != nil {
		s.logger.Error("failed to read feedback", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	counts := map[string]int{"total": len(feedback)}
	for _, fb := range feedback {
		if fb.Status != "" {
			counts[fb.Status]++
		}
	}
	s.respondJSON(w, http.StatusOK, counts)
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	feedback, err := s.records.Feedback()
	if err != nil {
		s.logger.Error("failed to read feedback", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	for _, fb := range feedback {
		if fb.ID == id {
			s.respondJSON(w, http.StatusOK, fb)
			return
		}
	}
	s.respondError(w, http.StatusNotFound, "feedback not found")
}

func (s *Server) handleUpdateFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case models.FeedbackStatusNew, models.FeedbackStatusReviewed, models.FeedbackStatusResolved:
	default:
		s.respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	found, err := s.records.UpdateFeedbackStatus(id, req.Status)
	if err != nil {
		s.logger.Error("failed to update feedback status", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	if !found {
		s.respondError(w, http.StatusNotFound, "feedback not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	days := analyticsDefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	summary, err := s.events.Summarize(days)
	if err != nil {
		s.logger.Error("failed to summarize analytics", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.content.Rebuild(r.Context()); err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "rebuilt",
		"vector_index_size": s.content.IndexSize(),
	})
}

// rebuildAsync refreshes the retrieval index after an admin content change.
// Retrieval keeps serving the previous index until the swap.
func (s *Server) rebuildAsync() {
	go func() {
		if err := s.content.Rebuild(context.Background()); err != nil {
			s.logger.Error("background rebuild failed", zap.Error(err))
		}
	}()
}
