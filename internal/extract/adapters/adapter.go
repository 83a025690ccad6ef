// Package adapters turns uploaded or fetched files into plain text, one
// adapter per family of file formats.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no adapter handles
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Adapter extracts the text of one family of file formats
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// Extensions lists the lower-case extensions handled, dot included
	Extensions() []string

	// CanHandle checks if this adapter can handle the given file name
	CanHandle(name string) bool

	// ExtractText returns the document text as UTF-8
	ExtractText(ctx context.Context, name string, data []byte) (string, error)
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewDocumentAdapter())
	registry.Register(NewSpreadsheetAdapter())
	registry.Register(NewHTMLAdapter())
	registry.Register(NewTextAdapter())

	return registry
}

// Register registers a new adapter. Adapters registered first win.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the adapter for the given file name
func (r *Registry) FindAdapter(name string) (Adapter, error) {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(name) {
			return adapter, nil
		}
	}
	ext := Extension(name)
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Supports reports whether some adapter handles name
func (r *Registry) Supports(name string) bool {
	_, err := r.FindAdapter(name)
	return err == nil
}

// SupportedExtensions returns every handled extension, sorted
func (r *Registry) SupportedExtensions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, adapter := range r.adapters {
		for _, ext := range adapter.Extensions() {
			if !seen[ext] {
				seen[ext] = true
				out = append(out, ext)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Extract dispatches to the matching adapter and returns the text along
// with the adapter name.
func (r *Registry) Extract(ctx context.Context, name string, data []byte) (string, string, error) {
	adapter, err := r.FindAdapter(name)
	if err != nil {
		return "", "", err
	}
	text, err := adapter.ExtractText(ctx, name, data)
	if err != nil {
		return "", adapter.Name(), fmt.Errorf("%s: %w", adapter.Name(), err)
	}
	return text, adapter.Name(), nil
}

// Extension returns the lower-case extension of name, dot included
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// BaseAdapter provides extension matching for adapters
type BaseAdapter struct {
	extensions []string
}

// Extensions returns the handled extensions
func (b *BaseAdapter) Extensions() []string {
	out := make([]string, len(b.extensions))
	copy(out, b.extensions)
	return out
}

// CanHandle matches name against the handled extensions
func (b *BaseAdapter) CanHandle(name string) bool {
	ext := Extension(name)
	for _, e := range b.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// withTempFile writes data to a temporary file carrying ext and calls fn
// with its path. Readers that only open files by name go through here.
func withTempFile(data []byte, ext string, fn func(path string) error) error {
	f, err := os.CreateTemp("", "juridico-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return fn(path)
}
