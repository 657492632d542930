package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/pipeline"
	"github.com/asha-ai/asha/internal/store"
	"github.com/asha-ai/asha/internal/topic"
)

// internalErrorMessage is the body of every 500 response. Failure detail goes
// to the server log only, never to the client.
const internalErrorMessage = "internal server error"

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("chat request", zap.String("user_id", req.UserID), zap.String("topic", req.Topic))

	resp, err := s.chat.Chat(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrInvalidInput):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrUnavailable):
			s.respondError(w, http.StatusServiceUnavailable, "content is being prepared, please retry shortly")
		default:
			s.logger.Error("chat failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassifyTopic(w http.ResponseWriter, r *http.Request) {
	var req models.TopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, models.TopicResponse{
		Topic:           string(topic.Classify(req.Message)),
		OriginalMessage: req.Message,
	})
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var fb models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(fb.MessageID) == "" {
		s.respondError(w, http.StatusBadRequest, "messageId is required")
		return
	}
	fb.ID = uuid.New().String()
	fb.Status = models.FeedbackStatusNew
	fb.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err := s.records.AppendFeedback(fb); err != nil {
		s.logger.Error("failed to store feedback", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	s.events.LogFeedback(models.FeedbackEvent{
		MessageID:    fb.MessageID,
		FeedbackType: fb.FeedbackType,
		Helpful:      fb.Helpful,
		Language:     fb.Language,
	})
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": fb.ID, "status": "received"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"retrieval_ready":   s.content.Ready(),
		"vector_index_size": s.content.IndexSize(),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
