package embedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiEmbedder embeds text with the Gemini embedding API. Query embeddings
// are cached in an LRU cache so repeated queries skip the network round-trip.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
	timeout    time.Duration
	cache      *EmbeddingCache
}

// NewGeminiEmbedder creates an embedder for the given model. The client is
// configured from the environment (GEMINI_API_KEY).
func NewGeminiEmbedder(ctx context.Context, model string, dimensions int, timeout time.Duration, cacheSize int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiEmbedder{
		client:     client,
		model:      model,
		dimensions: dimensions,
		timeout:    timeout,
		cache:      NewEmbeddingCache(cacheSize),
	}, nil
}

// Embed returns the embedding for text, consulting the cache first.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	dim := int32(e.dimensions)
	resp, err := e.client.Models.EmbedContent(ctx, e.model,
		genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dim},
	)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	vec := resp.Embeddings[0].Values
	normalize(vec)
	e.cache.Set(text, vec)
	return vec, nil
}

// EmbedBatch embeds each text in a single API call per uncached text.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *GeminiEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the underlying client has no resources to release.
func (e *GeminiEmbedder) Close() error {
	return nil
}
