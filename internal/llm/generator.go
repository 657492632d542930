// Package llm provides the generative text capability backed by the Gemini API.
package llm

import "context"

// Generator is the generative capability consumed by the pipeline. Classify is
// used for short constrained classification prompts; Generate for full answers.
// Both are single-shot synchronous calls with no internal retry.
type Generator interface {
	Classify(ctx context.Context, prompt string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}
