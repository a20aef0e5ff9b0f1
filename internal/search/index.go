package search

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/proboots/storefront/internal/domain"
)

// ProductIndex wraps an in-memory Bleve index.
// All methods are safe for concurrent use.
type ProductIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// NewProductIndex creates an empty index.
func NewProductIndex(logger *slog.Logger) (*ProductIndex, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &ProductIndex{index: index, logger: logger}, nil
}

// Close releases the index.
func (s *ProductIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Rebuild replaces the index contents with the catalog's products.
// Searches keep hitting the old index until the new one is ready.
func (s *ProductIndex) Rebuild(doc *domain.Catalog) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	batch := fresh.NewBatch()
	for _, d := range DocumentsFor(doc) {
		if err := batch.Index(d.ID, d.ToMap()); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("batch index %s: %w", d.ID, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		_ = fresh.Close()
		return fmt.Errorf("commit batch: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}
	s.logger.Debug("search index rebuilt", "products", len(doc.Products))
	return nil
}

// DocumentCount returns the number of indexed products.
func (s *ProductIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
