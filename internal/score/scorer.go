// Package score ranks document types and organizational sectors by the
// keyword evidence found in a publication block.
package score

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/ppiankov/juridico/internal/catalog"
	"github.com/ppiankov/juridico/internal/model"
)

// TypeScore is the evidence gathered for one document type
type TypeScore struct {
	Type    model.DocumentType `json:"type"`
	Score   int                `json:"score"`
	Total   int                `json:"total"`
	Matched []string           `json:"matched,omitempty"`
}

// TypeExplanation is the full breakdown behind a type decision
type TypeExplanation struct {
	Type       model.DocumentType `json:"type"`
	Confidence float64            `json:"confidence"`
	Scores     []TypeScore        `json:"scores"`
}

// TypeScorer classifies upper-cased text against one catalog snapshot.
// The automaton is built once per snapshot; every type keyword is
// found in a single pass over the text.
type TypeScorer struct {
	mu       sync.Mutex // the matcher keeps per-call state
	matcher  *ahocorasick.Matcher
	catalog  catalog.Catalog
	keywords []string         // distinct terms, automaton order
	kwTypes  map[string][]int // term -> indexes into types
	types    []model.DocumentType
}

// NewTypeScorer builds the automaton for cat
func NewTypeScorer(cat catalog.Catalog) *TypeScorer {
	s := &TypeScorer{
		catalog: cat,
		types:   cat.Types(),
		kwTypes: make(map[string][]int),
	}

	for i, typ := range s.types {
		for _, kw := range cat.Keywords(typ) {
			if _, seen := s.kwTypes[kw]; !seen {
				s.keywords = append(s.keywords, kw)
			}
			s.kwTypes[kw] = append(s.kwTypes[kw], i)
		}
	}

	if len(s.keywords) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(s.keywords)
	}
	return s
}

// Classify returns the winning type and its confidence.
//
// A type's score is the number of its distinct keywords occurring in
// upper. The highest score wins; ties go to the type declared first.
// Without any match the result is (Outros, 0).
func (s *TypeScorer) Classify(upper string) (model.DocumentType, float64) {
	scores := s.count(upper)

	best := -1
	for i, sc := range scores {
		if sc == 0 {
			continue
		}
		if best < 0 || sc > scores[best] {
			best = i
		}
	}

	if best < 0 {
		return model.TypeOutros, 0
	}

	typ := s.types[best]
	return typ, float64(scores[best]) / float64(s.catalog.Total(typ))
}

// Explain classifies upper and reports the per-type evidence in
// declaration order.
func (s *TypeScorer) Explain(upper string) TypeExplanation {
	typ, confidence := s.Classify(upper)
	matched := s.matched(upper)

	explanation := TypeExplanation{
		Type:       typ,
		Confidence: confidence,
		Scores:     make([]TypeScore, 0, len(s.types)),
	}
	for _, t := range s.types {
		var terms []string
		for _, kw := range s.catalog.Keywords(t) {
			if matched[kw] {
				terms = append(terms, kw)
			}
		}
		explanation.Scores = append(explanation.Scores, TypeScore{
			Type:    t,
			Score:   len(terms),
			Total:   s.catalog.Total(t),
			Matched: terms,
		})
	}
	return explanation
}

// count returns the score of every type, indexed like s.types
func (s *TypeScorer) count(upper string) []int {
	scores := make([]int, len(s.types))
	for kw := range s.matched(upper) {
		for _, i := range s.kwTypes[kw] {
			scores[i]++
		}
	}
	return scores
}

// matched returns the set of distinct keywords present in upper
func (s *TypeScorer) matched(upper string) map[string]bool {
	found := make(map[string]bool)
	if s.matcher == nil || upper == "" {
		return found
	}

	s.mu.Lock()
	hits := s.matcher.Match([]byte(upper))
	s.mu.Unlock()

	for _, idx := range hits {
		if idx < len(s.keywords) {
			found[s.keywords[idx]] = true
		}
	}
	return found
}
