// Package classify composes the extractors, the segmenter and the scorers
// into the classification engine.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/juridico/internal/catalog"
	"github.com/ppiankov/juridico/internal/extract"
	"github.com/ppiankov/juridico/internal/logging"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/score"
	"github.com/ppiankov/juridico/internal/segment"
)

// KeywordSource supplies the operator-managed keywords.
// Only active terms are returned.
type KeywordSource interface {
	ActiveTerms(ctx context.Context) (map[model.DocumentType][]string, error)
}

// Snapshot is a catalog together with the type scorer built from it
type Snapshot struct {
	catalog catalog.Catalog
	types   *score.TypeScorer
}

// NewSnapshot prepares cat for classification
func NewSnapshot(cat catalog.Catalog) *Snapshot {
	return &Snapshot{catalog: cat, types: score.NewTypeScorer(cat)}
}

// Catalog returns the underlying keyword catalog
func (s *Snapshot) Catalog() catalog.Catalog {
	return s.catalog
}

// Publication is one classified block
type Publication struct {
	Block  segment.Block
	Result model.ClassificationResult
}

// Explanation is a classification with the evidence behind it
type Explanation struct {
	Result  model.ClassificationResult `json:"result"`
	Types   score.TypeExplanation      `json:"types"`
	Sectors []score.SectorScore        `json:"sectors"`

	// Every process number cited in the block; Result carries the first
	ProcessNumbers []string `json:"process_numbers,omitempty"`
}

// Engine classifies publication text
type Engine struct {
	keywords KeywordSource
	defaults catalog.Defaults
	sectors  *score.SectorScorer
	logger   logging.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithDefaults replaces the built-in keyword table
func WithDefaults(defaults catalog.Defaults) Option {
	return func(e *Engine) {
		e.defaults = defaults
	}
}

// WithSectors replaces the built-in sector taxonomy
func WithSectors(table score.SectorTable) Option {
	return func(e *Engine) {
		e.sectors = score.NewSectorScorer(table)
	}
}

// WithLogger sets the engine logger
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine. A nil keyword source means no custom terms.
func NewEngine(keywords KeywordSource, opts ...Option) *Engine {
	e := &Engine{
		keywords: keywords,
		defaults: catalog.DefaultKeywords(),
		sectors:  score.NewSectorScorer(score.DefaultSectors()),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog fetches the active custom terms once and builds a snapshot
func (e *Engine) Catalog(ctx context.Context) (*Snapshot, error) {
	var custom map[model.DocumentType][]string
	if e.keywords != nil {
		terms, err := e.keywords.ActiveTerms(ctx)
		if err != nil {
			return nil, fmt.Errorf("load keywords: %w", err)
		}
		custom = terms
	}

	cat := catalog.Build(e.defaults, custom)
	e.logger.Debug("catalog built", logging.Int("keywords", cat.Len()))
	return NewSnapshot(cat), nil
}

// ClassifyAndExtract classifies a single block. It is a pure function of
// text and snap.
func (e *Engine) ClassifyAndExtract(text string, snap *Snapshot) model.ClassificationResult {
	normalized := extract.Normalize(text)
	upper := strings.ToUpper(normalized)

	typ, confidence := snap.types.Classify(upper)
	sector, keyword := e.sectors.Classify(upper)

	return model.ClassificationResult{
		Type:              typ,
		ProcessNumber:     extract.ProcessNumber(normalized),
		PublicationDate:   extract.PublicationDate(normalized),
		Sector:            sector,
		SectorKeywordUsed: keyword,
		Confidence:        confidence,
	}
}

// Explain classifies a single block and returns the per-type and
// per-sector evidence.
func (e *Engine) Explain(text string, snap *Snapshot) Explanation {
	upper := extract.Upper(text)
	return Explanation{
		Result:  e.ClassifyAndExtract(text, snap),
		Types:   snap.types.Explain(upper),
		Sectors: e.sectors.Explain(upper),

		ProcessNumbers: extract.AllProcessNumbers(text),
	}
}

// ExplainText explains text as a single publication
func (e *Engine) ExplainText(ctx context.Context, text string) (Explanation, error) {
	snap, err := e.Catalog(ctx)
	if err != nil {
		return Explanation{}, err
	}
	return e.Explain(text, snap), nil
}

// ExplainPublications segments text and explains every block
func (e *Engine) ExplainPublications(ctx context.Context, text string) ([]Explanation, error) {
	snap, err := e.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	blocks := segment.Split(extract.Normalize(text))
	explanations := make([]Explanation, len(blocks))
	for i, block := range blocks {
		explanations[i] = e.Explain(block.Text, snap)
	}
	return explanations, nil
}

// ExtractPublications splits text into publication blocks and classifies
// each of them in order against one catalog snapshot.
func (e *Engine) ExtractPublications(ctx context.Context, text string) ([]Publication, error) {
	snap, err := e.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	normalized := extract.Normalize(text)
	blocks := segment.Split(normalized)

	if markers := segment.Markers(normalized); len(markers) < 2 {
		e.logger.Info("fewer than two publication markers, classifying as a single publication",
			logging.Int("markers", len(markers)))
	} else {
		e.logger.Debug("publication markers found", logging.Int("markers", len(markers)))
	}

	publications := make([]Publication, len(blocks))
	for i, block := range blocks {
		publications[i] = Publication{
			Block:  block,
			Result: e.ClassifyAndExtract(block.Text, snap),
		}
	}
	return publications, nil
}

// ExtractMultiplePublications returns one result per publication block.
// It fails only when the keyword source fails.
func (e *Engine) ExtractMultiplePublications(ctx context.Context, text string) ([]model.ClassificationResult, error) {
	publications, err := e.ExtractPublications(ctx, text)
	if err != nil {
		return nil, err
	}

	results := make([]model.ClassificationResult, len(publications))
	for i, p := range publications {
		results[i] = p.Result
	}
	return results, nil
}

// Classify treats the whole text as one publication
func (e *Engine) Classify(ctx context.Context, text string) (model.ClassificationResult, error) {
	snap, err := e.Catalog(ctx)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	return e.ClassifyAndExtract(text, snap), nil
}
