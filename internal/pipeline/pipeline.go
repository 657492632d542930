// Package pipeline orchestrates a chat turn: bias filtering, topic routing,
// retrieval, prompt composition, answer generation and analytics logging.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/bias"
	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/profile"
	"github.com/asha-ai/asha/internal/prompt"
	"github.com/asha-ai/asha/internal/store"
	"github.com/asha-ai/asha/internal/topic"
)

// BiasClassifier decides whether a query is biased.
type BiasClassifier interface {
	Classify(ctx context.Context, query string) bias.Result
}

// AnswerGenerator produces the final answer text for a composed prompt.
type AnswerGenerator interface {
	Generate(ctx context.Context, promptText string) string
}

// EventLog receives analytics events emitted by the pipeline.
type EventLog interface {
	LogChat(ev models.ChatEvent)
	LogBiasDetected(ev models.BiasEvent)
}

// Pipeline runs chat turns end to end. It is stateless across requests; all
// per-turn data lives in the request and response.
type Pipeline struct {
	bias     BiasClassifier
	content  store.ContentStore
	answers  AnswerGenerator
	profiles profile.Store
	events   EventLog
	logger   *zap.Logger

	retrievalLimit int
}

// New creates a pipeline. profiles may be nil to disable personalization.
func New(biasFilter BiasClassifier, content store.ContentStore, answers AnswerGenerator,
	profiles profile.Store, events EventLog, retrievalLimit int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		bias:           biasFilter,
		content:        content,
		answers:        answers,
		profiles:       profiles,
		events:         events,
		logger:         logger,
		retrievalLimit: retrievalLimit,
	}
}

// Chat processes one chat turn. It returns ErrInvalidInput for an empty query
// and store.ErrUnavailable when retrieval cannot serve; every other failure
// mode degrades into a fallback answer rather than an error.
func (p *Pipeline) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	started := time.Now()

	if result := p.bias.Classify(ctx, req.Query); result.Biased {
		p.logger.Info("biased query deflected",
			zap.String("bias_type", string(result.Type)), zap.String("language", req.Language))
		p.events.LogBiasDetected(models.BiasEvent{
			Query:     req.Query,
			BiasType:  string(result.Type),
			Prevented: true,
			Language:  req.Language,
		})
		return p.respond(BiasDeflectionMessage, true), nil
	}

	routed, category := topic.Route(req.Topic)

	retrieved, err := p.content.Retrieve(ctx, req.Query, p.retrievalLimit, category)
	if err != nil {
		return nil, err
	}

	promptText := prompt.Compose(req.Query, retrieved, req.Language, routed)
	answerText := p.answers.Generate(ctx, promptText)
	answerText = p.personalize(ctx, req, answerText)

	p.events.LogChat(models.ChatEvent{
		Query:          req.Query,
		ResponseLength: len(answerText),
		ElapsedMS:      time.Since(started).Milliseconds(),
		Language:       req.Language,
		UserID:         req.UserID,
		Topic:          string(routed),
		HadContext:     !retrieved.Empty(),
	})
	return p.respond(answerText, false), nil
}

// personalize prefixes a greeting on the first turn of a known user. Profile
// lookup failures degrade to the unprefixed answer.
func (p *Pipeline) personalize(ctx context.Context, req *models.ChatRequest, answer string) string {
	if p.profiles == nil || !req.FirstTurn() || req.UserID == "" {
		return answer
	}
	prof, ok, err := p.profiles.Get(ctx, req.UserID)
	if err != nil {
		p.logger.Warn("profile lookup failed, skipping personalization",
			zap.String("user_id", req.UserID), zap.Error(err))
		return answer
	}
	if !ok || prof.Name == "" {
		return answer
	}
	return fmt.Sprintf("Welcome back, %s! %s", prof.Name, answer)
}

func (p *Pipeline) respond(text string, biased bool) *models.ChatResponse {
	return &models.ChatResponse{
		Response:     text,
		MessageID:    uuid.New().String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		BiasDetected: biased,
	}
}
