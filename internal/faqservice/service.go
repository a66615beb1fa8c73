// Package faqservice coordinates the corpus and its SQLite mirror for the
// browse surfaces, and owns the hot-reload path.
package faqservice

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/index"
)

// Service holds the current corpus and keeps the index in sync with it.
type Service struct {
	db     *index.DB
	corpus atomic.Pointer[faq.Corpus]
}

// NewService creates a service and seeds the index from the corpus.
func NewService(c *faq.Corpus, db *index.DB) (*Service, error) {
	s := &Service{db: db}
	s.corpus.Store(c)
	if err := db.Replace(c); err != nil {
		return nil, fmt.Errorf("faqservice: seed index: %w", err)
	}
	return s, nil
}

// Corpus returns the current corpus. Chat sessions capture this once at
// creation.
func (s *Service) Corpus() *faq.Corpus {
	return s.corpus.Load()
}

// List returns records for a category with pagination.
func (s *Service) List(_ context.Context, category faq.Category, limit, offset int) ([]faq.Record, int, error) {
	return s.db.ListByCategory(category, limit, offset)
}

// Get returns a single record by id.
func (s *Service) Get(_ context.Context, id string) (*faq.Record, error) {
	r, err := s.db.Get(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.ErrNotFound
	}
	return r, nil
}

// Search runs the browse-rule search against the index.
func (s *Service) Search(_ context.Context, query string, category faq.Category, limit int) ([]faq.Record, error) {
	return s.db.Search(query, category, limit)
}

// Reload loads the corpus file again and swaps it in when its version
// changed. Returns true when a swap happened. On any error the previous
// corpus stays active.
func (s *Service) Reload(path string) (bool, error) {
	next, err := faq.LoadFile(path)
	if err != nil {
		return false, err
	}
	if next.Version() == s.Corpus().Version() {
		return false, nil
	}
	if err := s.db.Replace(next); err != nil {
		return false, err
	}
	s.corpus.Store(next)
	return true, nil
}
