// Package answer wraps the generative capability for final answer production.
// Callers always receive a non-empty answer: capability failures and empty
// model output are converted to fixed fallback strings, never surfaced as
// errors to the HTTP layer.
package answer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/llm"
)

// Fallback answers. Generation failure is common and is absorbed here rather
// than turned into a 5xx.
const (
	EmptyResponseMessage = "I could not generate a response to that. Could you try rephrasing your question?"
	ApologyMessage       = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."
)

// Generator produces final answers from composed prompts.
type Generator struct {
	llm    llm.Generator
	logger *zap.Logger
}

// NewGenerator creates an answer generator.
func NewGenerator(g llm.Generator, logger *zap.Logger) *Generator {
	return &Generator{llm: g, logger: logger}
}

// Generate invokes the generative capability once and normalizes the result.
// The returned string is never empty.
func (g *Generator) Generate(ctx context.Context, promptText string) string {
	text, err := g.llm.Generate(ctx, promptText)
	if err != nil {
		g.logger.Warn("generation failed, returning apology", zap.Error(err))
		return ApologyMessage
	}
	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn("generation returned empty text")
		return EmptyResponseMessage
	}
	return text
}
