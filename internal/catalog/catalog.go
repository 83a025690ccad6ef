// Package catalog assembles the per-type keyword sets used by the type
// classifier: built-in defaults merged with operator-supplied terms.
package catalog

import (
	"github.com/ppiankov/juridico/internal/extract"
	"github.com/ppiankov/juridico/internal/model"
)

// Catalog is an immutable snapshot of keywords per document type.
// One snapshot is built per top-level classification call and shared by
// every block of that call.
type Catalog struct {
	types    []model.DocumentType
	keywords map[model.DocumentType][]string
}

// Build merges custom terms (normalized to upper case) with the defaults.
// Every type of the enumeration is present, possibly with no terms.
// Custom terms come first; duplicates after normalization are dropped.
func Build(defaults Defaults, custom map[model.DocumentType][]string) Catalog {
	types := model.DocumentTypes()
	keywords := make(map[model.DocumentType][]string, len(types))

	for _, typ := range types {
		seen := make(map[string]bool)
		terms := make([]string, 0, len(custom[typ])+len(defaults[typ]))

		add := func(raw string) {
			term := extract.NormalizeTerm(raw)
			if term == "" || seen[term] {
				return
			}
			seen[term] = true
			terms = append(terms, term)
		}

		for _, raw := range custom[typ] {
			add(raw)
		}
		for _, raw := range defaults[typ] {
			add(raw)
		}

		keywords[typ] = terms
	}

	return Catalog{types: types, keywords: keywords}
}

// Types returns the document types in iteration order
func (c Catalog) Types() []model.DocumentType {
	out := make([]model.DocumentType, len(c.types))
	copy(out, c.types)
	return out
}

// Keywords returns a copy of the terms for t
func (c Catalog) Keywords(t model.DocumentType) []string {
	terms := c.keywords[t]
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// Total returns the number of terms for t
func (c Catalog) Total(t model.DocumentType) int {
	return len(c.keywords[t])
}

// Len returns the number of terms across all types
func (c Catalog) Len() int {
	n := 0
	for _, terms := range c.keywords {
		n += len(terms)
	}
	return n
}
