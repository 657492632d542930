// Package server provides the HTTP API for Asha.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/analytics"
	"github.com/asha-ai/asha/internal/config"
	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/records"
)

// ChatService runs one chat turn; implemented by pipeline.Pipeline.
type ChatService interface {
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

// ContentManager is the slice of the content store the server needs: admin
// writes trigger rebuilds, and health reporting reads index state.
type ContentManager interface {
	Rebuild(ctx context.Context) error
	Ready() bool
	IndexSize() int
}

// Server is the HTTP server for the Asha API.
type Server struct {
	chat    ChatService
	content ContentManager
	records *records.Store
	events  *analytics.Log
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	chat ChatService,
	content ContentManager,
	rec *records.Store,
	events *analytics.Log,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:    chat,
		content: content,
		records: rec,
		events:  events,
		config:  cfg,
		logger:  logger,
	}
}

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/chat", s.handleChat)
	r.Post("/api/classify-topic", s.handleClassifyTopic)
	r.Post("/api/submit-feedback", s.handleSubmitFeedback)
	r.Get("/health", s.handleHealth)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleReplaceSessions)
		r.Get("/jobs", s.handleListJobs)
		r.Post("/jobs", s.handleReplaceJobs)
		r.Get("/trusted-sources", s.handleListTrustedSources)
		r.Post("/trusted-sources", s.handleReplaceTrustedSources)
		r.Get("/feedback", s.handleListFeedback)
		r.Get("/feedback-count", s.handleFeedbackCount)
		r.Get("/feedback/{id}", s.handleGetFeedback)
		r.Put("/feedback/{id}/status", s.handleUpdateFeedbackStatus)
		r.Get("/analytics", s.handleAnalytics)
		r.Post("/rebuild", s.handleRebuild)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
