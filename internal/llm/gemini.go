package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API. It uses a lighter model for
// classification and a full model for answer generation. Every call carries a
// bounded timeout; a timeout surfaces as an error, which callers treat as a
// capability failure.
type GeminiGenerator struct {
	client          *genai.Client
	model           string
	classifierModel string
	timeout         time.Duration
}

// NewGeminiGenerator creates a generator. The client is configured from the
// environment (GEMINI_API_KEY).
func NewGeminiGenerator(ctx context.Context, model, classifierModel string, timeout time.Duration) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{
		client:          client,
		model:           model,
		classifierModel: classifierModel,
		timeout:         timeout,
	}, nil
}

// Classify sends a constrained classification prompt to the lighter model.
func (g *GeminiGenerator) Classify(ctx context.Context, prompt string) (string, error) {
	return g.call(ctx, g.classifierModel, prompt)
}

// Generate sends a full answer prompt to the main model.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.call(ctx, g.model, prompt)
}

func (g *GeminiGenerator) call(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}

// Close is a no-op; the underlying client has no resources to release.
func (g *GeminiGenerator) Close() error {
	return nil
}
