// Package storage defines the persistence interface for content-store documents.
package storage

import (
	"context"

	"github.com/asha-ai/asha/internal/models"
)

// Storage persists the ingested document corpus. The corpus is replaced
// wholesale on rebuild; there are no partial updates.
type Storage interface {
	ReplaceAll(ctx context.Context, docs []*models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocuments(ctx context.Context, ids []string) (map[string]*models.Document, error)
	ListDocuments(ctx context.Context, category models.Category) ([]*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
	Close() error
}
