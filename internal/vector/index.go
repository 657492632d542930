// Package vector provides an in-memory vector index with cosine similarity search.
package vector

// Result is a single vector search hit. ID is the document ID.
type Result struct {
	ID    string
	Score float64 // cosine similarity for normalized vectors (0-1)
}
