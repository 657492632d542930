// Package bias classifies incoming queries as biased or unbiased. The primary
// path asks the model classifier; a deterministic keyword fallback keeps the
// filter working through model outages, so an LLM failure never fails open.
package bias

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/llm"
)

const classifyPromptFormat = `You are a bias detection system for a career guidance assistant.
Analyze the following user message for bias against any group (gender, racial, religious, age, or other).
Respond with exactly one line in one of these two formats and nothing else:
Biased: Yes, Type: <gender|racial|religious|age|other>
Biased: No

Message: %s`

// Result is the outcome of a bias classification.
type Result struct {
	Biased bool
	Type   Type
}

// Filter classifies queries for bias.
type Filter struct {
	generator llm.Generator
	logger    *zap.Logger
}

// NewFilter creates a bias filter backed by the given generator.
func NewFilter(generator llm.Generator, logger *zap.Logger) *Filter {
	return &Filter{generator: generator, logger: logger}
}

// Classify reports whether query is biased and, if so, the bias type. It
// always terminates with a definite answer: when the model call fails or its
// response does not match the expected grammar, the keyword fallback decides.
func (f *Filter) Classify(ctx context.Context, query string) Result {
	resp, err := f.generator.Classify(ctx, fmt.Sprintf(classifyPromptFormat, query))
	if err != nil {
		f.logger.Warn("bias classifier unavailable, using keyword fallback", zap.Error(err))
		return classifyByKeywords(query)
	}

	result, ok := parseClassifierResponse(resp)
	if !ok {
		f.logger.Warn("bias classifier response did not match grammar, using keyword fallback",
			zap.String("response", resp))
		return classifyByKeywords(query)
	}
	return result
}

// parseClassifierResponse parses the constrained response grammar:
// "Biased: Yes, Type: <type>" or "Biased: No".
func parseClassifierResponse(resp string) (Result, bool) {
	line := strings.TrimSpace(resp)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	lower := strings.ToLower(line)

	if lower == "biased: no" {
		return Result{}, true
	}
	if !strings.HasPrefix(lower, "biased: yes") {
		return Result{}, false
	}
	_, after, found := strings.Cut(lower, "type:")
	if !found {
		return Result{Biased: true, Type: TypeOther}, true
	}
	switch Type(strings.TrimSpace(after)) {
	case TypeGender:
		return Result{Biased: true, Type: TypeGender}, true
	case TypeRacial:
		return Result{Biased: true, Type: TypeRacial}, true
	case TypeReligious:
		return Result{Biased: true, Type: TypeReligious}, true
	case TypeAge:
		return Result{Biased: true, Type: TypeAge}, true
	case TypeOther:
		return Result{Biased: true, Type: TypeOther}, true
	}
	return Result{}, false
}

// classifyByKeywords is the deterministic fallback: case-insensitive substring
// match against the trigger phrase table. Worst case it returns not-biased.
func classifyByKeywords(query string) Result {
	lowered := strings.ToLower(query)
	for _, entry := range keywordTable {
		for _, phrase := range entry.phrases {
			if strings.Contains(lowered, phrase) {
				return Result{Biased: true, Type: entry.biasType}
			}
		}
	}
	return Result{}
}
