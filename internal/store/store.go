// Package store defines persistence for operator keywords and classified
// publication records.
package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/ppiankov/juridico/internal/extract"
	"github.com/ppiankov/juridico/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidKeyword is returned for blank terms or unknown types
	ErrInvalidKeyword = errors.New("invalid keyword")
	// ErrDuplicateKeyword is returned when an active keyword already exists
	ErrDuplicateKeyword = errors.New("keyword already exists")
	// ErrInvalidUpdate is returned for document updates carrying bad values
	ErrInvalidUpdate = errors.New("invalid update")
)

// KeywordStore manages operator-supplied keywords.
// Removing a keyword deactivates it; history is kept.
type KeywordStore interface {
	ActiveTerms(ctx context.Context) (map[model.DocumentType][]string, error)
	ListKeywords(ctx context.Context, includeInactive bool) ([]model.Keyword, error)
	AddKeyword(ctx context.Context, term string, typ model.DocumentType) (model.Keyword, error)
	DeactivateKeyword(ctx context.Context, id string) error
}

// DocumentStore manages classified publication records
type DocumentStore interface {
	SaveDocuments(ctx context.Context, docs []model.Document) ([]model.Document, error)
	ListDocuments(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error)
	GetDocument(ctx context.Context, id string) (model.Document, error)
	UpdateDocument(ctx context.Context, id string, upd model.DocumentUpdate) (model.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Store is the full persistence surface
type Store interface {
	KeywordStore
	DocumentStore
	Close() error
}

// IDGenerator produces monotonically increasing ULIDs
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator seeded from crypto/rand
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns the next ID
func (g *IDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

// NormalizeKeyword validates a new keyword and returns its stored term
func NormalizeKeyword(term string, typ model.DocumentType) (string, error) {
	normalized := extract.NormalizeTerm(term)
	if normalized == "" {
		return "", fmt.Errorf("%w: blank term", ErrInvalidKeyword)
	}
	if !typ.Valid() {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidKeyword, typ)
	}
	return normalized, nil
}

// ApplyUpdate copies the non-nil fields of upd onto doc
func ApplyUpdate(doc *model.Document, upd model.DocumentUpdate, now time.Time) error {
	if upd.Type != nil && !upd.Type.Valid() {
		return fmt.Errorf("%w: unknown document type %q", ErrInvalidUpdate, *upd.Type)
	}
	if upd.Sector != nil {
		doc.Sector = *upd.Sector
	}
	if upd.Responsible != nil {
		doc.Responsible = *upd.Responsible
	}
	if upd.DeadlineStart != nil {
		deadline := *upd.DeadlineStart
		doc.DeadlineStart = &deadline
	}
	if upd.Type != nil {
		doc.Type = *upd.Type
	}
	doc.UpdatedAt = &now
	return nil
}
