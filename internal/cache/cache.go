// Package cache keeps extracted document text keyed by the hash of the
// file bytes, so re-submitting a file skips PDF/DOCX extraction.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ppiankov/juridico/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentHash returns the hex SHA-256 of data
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// TextKey builds the cache key for the extracted text of a file
func TextKey(contentHash string) string {
	return "juridico-v1-text-" + contentHash
}

// New builds the cache described by cfg. A disabled cache never hits.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	memory := NewMemoryCache(cfg.MemoryTTL, 10*time.Minute, cfg.MemoryMaxBytes)
	if cfg.Dir == "" {
		return memory
	}
	return NewLayeredCache(memory, NewDiskCache(cfg.Dir, cfg.DiskTTL))
}

// TextEntry is a cached extraction result
type TextEntry struct {
	Text        string    `json:"text"`
	Adapter     string    `json:"adapter"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// TextCache stores TextEntry values on top of a byte cache
type TextCache struct {
	cache Cache
	ttl   time.Duration
}

// NewTextCache wraps c; ttl 0 uses the layer defaults
func NewTextCache(c Cache, ttl time.Duration) *TextCache {
	if c == nil {
		c = Nop{}
	}
	return &TextCache{cache: c, ttl: ttl}
}

// Get returns the cached extraction for a content hash
func (t *TextCache) Get(contentHash string) (TextEntry, bool) {
	data, ok := t.cache.Get(TextKey(contentHash))
	if !ok {
		return TextEntry{}, false
	}
	var entry TextEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return TextEntry{}, false
	}
	return entry, true
}

// Put stores an extraction for a content hash
func (t *TextCache) Put(contentHash string, entry TextEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return t.cache.Set(TextKey(contentHash), data, t.ttl)
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
