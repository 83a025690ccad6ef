// Package memstore is an in-memory store.Store used by tests and by
// `--store memory` runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/store"
)

// Store is an in-memory implementation of store.Store
type Store struct {
	mu        sync.RWMutex
	ids       *store.IDGenerator
	now       func() time.Time
	keywords  map[string]model.Keyword
	documents map[string]model.Document
}

var _ store.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		ids:       store.NewIDGenerator(),
		now:       func() time.Time { return time.Now().UTC() },
		keywords:  make(map[string]model.Keyword),
		documents: make(map[string]model.Document),
	}
}

// Close implements store.Store
func (s *Store) Close() error { return nil }

// ActiveTerms returns active keyword terms grouped by type
func (s *Store) ActiveTerms(ctx context.Context) (map[model.DocumentType][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := make(map[model.DocumentType][]string)
	for _, kw := range s.sortedKeywords() {
		if kw.Active {
			terms[kw.Type] = append(terms[kw.Type], kw.Term)
		}
	}
	return terms, nil
}

// ListKeywords returns keywords ordered by type, then creation
func (s *Store) ListKeywords(ctx context.Context, includeInactive bool) ([]model.Keyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Keyword
	for _, kw := range s.sortedKeywords() {
		if kw.Active || includeInactive {
			out = append(out, kw)
		}
	}
	return out, nil
}

// AddKeyword stores a new active keyword
func (s *Store) AddKeyword(ctx context.Context, term string, typ model.DocumentType) (model.Keyword, error) {
	normalized, err := store.NormalizeKeyword(term, typ)
	if err != nil {
		return model.Keyword{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kw := range s.keywords {
		if kw.Active && kw.Type == typ && kw.Term == normalized {
			return model.Keyword{}, fmt.Errorf("%w: %s (%s)", store.ErrDuplicateKeyword, normalized, typ)
		}
	}

	kw := model.Keyword{
		ID:        s.ids.New(),
		Term:      normalized,
		Type:      typ,
		Active:    true,
		CreatedAt: s.now(),
	}
	s.keywords[kw.ID] = kw
	return kw, nil
}

// DeactivateKeyword soft-deletes a keyword
func (s *Store) DeactivateKeyword(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kw, ok := s.keywords[id]
	if !ok {
		return fmt.Errorf("keyword %s: %w", id, store.ErrNotFound)
	}
	now := s.now()
	kw.Active = false
	kw.UpdatedAt = &now
	s.keywords[id] = kw
	return nil
}

// SaveDocuments assigns IDs and timestamps and stores the records
func (s *Store) SaveDocuments(ctx context.Context, docs []model.Document) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	saved := make([]model.Document, len(docs))
	for i, doc := range docs {
		doc.ID = s.ids.New()
		doc.CreatedAt = now
		doc.UpdatedAt = nil
		s.documents[doc.ID] = copyDocument(doc)
		saved[i] = copyDocument(doc)
	}
	return saved, nil
}

// ListDocuments returns the newest records first
func (s *Store) ListDocuments(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		if filter.Type != nil && doc.Type != *filter.Type {
			continue
		}
		out = append(out, copyDocument(doc))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetDocument returns one record
func (s *Store) GetDocument(ctx context.Context, id string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return model.Document{}, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	return copyDocument(doc), nil
}

// UpdateDocument applies operator edits
func (s *Store) UpdateDocument(ctx context.Context, id string, upd model.DocumentUpdate) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return model.Document{}, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	if err := store.ApplyUpdate(&doc, upd, s.now()); err != nil {
		return model.Document{}, err
	}
	s.documents[id] = doc
	return copyDocument(doc), nil
}

// DeleteDocument removes a record
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	delete(s.documents, id)
	return nil
}

// sortedKeywords must be called with s.mu held
func (s *Store) sortedKeywords() []model.Keyword {
	order := make(map[model.DocumentType]int)
	for i, typ := range model.DocumentTypes() {
		order[typ] = i
	}

	out := make([]model.Keyword, 0, len(s.keywords))
	for _, kw := range s.keywords {
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return order[out[i].Type] < order[out[j].Type]
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyDocument(d model.Document) model.Document {
	if d.Warnings != nil {
		d.Warnings = append([]string(nil), d.Warnings...)
	}
	return d
}
