// Package models defines core data structures for documents, chat, records, and analytics.
package models

// Category tags a document as a job listing or a session/event.
type Category string

const (
	CategoryJob     Category = "job"
	CategorySession Category = "session"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryJob || c == CategorySession
}

// Document is a short text document held by the content store. Documents are
// immutable once ingested; re-ingestion replaces the corpus wholesale.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Category Category          `json:"category"`
	Metadata map[string]string `json:"metadata"`
}

// Passage is a retrieved document's text paired with its metadata.
type Passage struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// SourceType returns the source_type metadata tag ("job" or "session").
func (p Passage) SourceType() string {
	return p.Metadata["source_type"]
}

// RetrievalResult is an ordered list of passages, best match first.
type RetrievalResult []Passage

// Empty reports whether the retrieval returned no passages.
func (r RetrievalResult) Empty() bool {
	return len(r) == 0
}
