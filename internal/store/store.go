// Package store implements the content store: the ingested job/session corpus
// with semantic nearest-neighbor retrieval.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/asha-ai/asha/internal/embedding"
	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/records"
	"github.com/asha-ai/asha/internal/storage"
	"github.com/asha-ai/asha/internal/vector"
	"go.uber.org/zap"
)

// ErrUnavailable reports that the retrieval index is not usable. The caller
// must treat this as a fatal, user-visible condition, not an empty result.
var ErrUnavailable = errors.New("content store unavailable")

// ContentStore is the retrieval contract consumed by the pipeline.
type ContentStore interface {
	Retrieve(ctx context.Context, query string, limit int, category models.Category) (models.RetrievalResult, error)
	Rebuild(ctx context.Context) error
}

// Store owns the document corpus and its vector index. The index handle is
// swapped atomically on rebuild: readers during a rebuild see the old or the
// new index, never a torn one.
type Store struct {
	embedder  embedding.Embedder
	storage   storage.Storage
	records   *records.Store
	indexPath string
	logger    *zap.Logger

	index     atomic.Pointer[vector.MemoryIndex]
	rebuildMu sync.Mutex
}

// New creates a content store. Call Rebuild (or LoadIndex) before serving
// queries; until then Retrieve reports ErrUnavailable.
func New(embedder embedding.Embedder, st storage.Storage, rec *records.Store, indexPath string, logger *zap.Logger) *Store {
	return &Store{
		embedder:  embedder,
		storage:   st,
		records:   rec,
		indexPath: indexPath,
		logger:    logger,
	}
}

// Retrieve returns up to limit passages ranked by descending semantic
// similarity to query. A non-empty category restricts candidates to documents
// of that category before ranking. Zero matches is a normal outcome and
// returns an empty result.
func (s *Store) Retrieve(ctx context.Context, query string, limit int, category models.Category) (models.RetrievalResult, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, fmt.Errorf("%w: index not built", ErrUnavailable)
	}
	if limit <= 0 {
		return models.RetrievalResult{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrUnavailable, err)
	}

	// With a category filter, rank the whole corpus and filter afterwards so
	// that the filter never starves the result of eligible documents.
	k := limit
	if category != "" {
		k = idx.Size()
	}
	hits, err := idx.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %v", ErrUnavailable, err)
	}
	if len(hits) == 0 {
		return models.RetrievalResult{}, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	docs, err := s.storage.GetDocuments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch documents: %v", ErrUnavailable, err)
	}

	result := make(models.RetrievalResult, 0, limit)
	for _, h := range hits {
		doc, ok := docs[h.ID]
		if !ok {
			// Index and storage can briefly disagree around a rebuild.
			s.logger.Debug("document missing for index hit", zap.String("id", h.ID))
			continue
		}
		if category != "" && doc.Category != category {
			continue
		}
		result = append(result, passageFromDocument(doc))
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Rebuild clears and recomputes the entire index from the current contents of
// the job and session record files. This is a full O(corpus) rebuild, not an
// incremental update; it is meant for admin-triggered or watcher-triggered
// refreshes, not per-request use. Concurrent rebuilds are serialized.
func (s *Store) Rebuild(ctx context.Context) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	docs, err := s.buildCorpus()
	if err != nil {
		return fmt.Errorf("build corpus: %w", err)
	}

	newIndex, err := vector.NewMemoryIndex(s.embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if len(docs) > 0 {
		texts := make([]string, len(docs))
		ids := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.Text
			ids[i] = doc.ID
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed corpus: %w", err)
		}
		if err := newIndex.Add(ctx, ids, vectors); err != nil {
			return fmt.Errorf("index corpus: %w", err)
		}
	}

	if err := s.storage.ReplaceAll(ctx, docs); err != nil {
		return fmt.Errorf("persist documents: %w", err)
	}

	s.index.Store(newIndex)

	if s.indexPath != "" {
		if err := newIndex.Save(s.indexPath); err != nil {
			s.logger.Warn("failed to persist vector index", zap.Error(err))
		}
	}

	s.logger.Info("content store rebuilt", zap.Int("documents", len(docs)))
	return nil
}

// LoadIndex restores a previously saved index from disk. Used at startup to
// avoid re-embedding an unchanged corpus; documents must already be present in
// storage. A missing index file leaves the store unavailable.
func (s *Store) LoadIndex() error {
	idx, err := vector.NewMemoryIndex(s.embedder.Dimensions())
	if err != nil {
		return err
	}
	if err := idx.Load(s.indexPath); err != nil {
		return fmt.Errorf("load vector index: %w", err)
	}
	if idx.Size() == 0 {
		return nil
	}
	s.index.Store(idx)
	s.logger.Info("vector index loaded", zap.Int("vectors", idx.Size()))
	return nil
}

// Ready reports whether the store can serve queries.
func (s *Store) Ready() bool {
	return s.index.Load() != nil
}

// IndexSize returns the number of indexed documents, or 0 when unavailable.
func (s *Store) IndexSize() int {
	idx := s.index.Load()
	if idx == nil {
		return 0
	}
	return idx.Size()
}
