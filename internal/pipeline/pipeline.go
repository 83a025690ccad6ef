// Package pipeline turns files and remote documents into classified,
// validated publication records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/juridico/internal/cache"
	"github.com/ppiankov/juridico/internal/classify"
	"github.com/ppiankov/juridico/internal/extract/adapters"
	"github.com/ppiankov/juridico/internal/logging"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/store"
	"github.com/ppiankov/juridico/internal/validate"
	"github.com/ppiankov/juridico/internal/worker"
)

// Mode selects how a file's text is classified
type Mode int

const (
	// ModeMultiple segments the text at publication markers
	ModeMultiple Mode = iota
	// ModeSingle classifies the whole text as one publication
	ModeSingle
)

// String returns the mode name
func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "multiple"
}

// Options control one processing call
type Options struct {
	Mode          Mode
	Persist       bool   // Save records when a document store is configured
	DefaultSector string // Sector for records the engine left unresolved
}

// Pipeline orchestrates extraction, classification, validation and
// persistence
type Pipeline struct {
	registry  *adapters.Registry
	texts     *cache.TextCache
	engine    *classify.Engine
	validator *validate.Validator
	docs      store.DocumentStore
	fetcher   *Fetcher
	renderer  *Renderer
	logger    logging.Logger
	config    *model.Config
	defaults  Options
	now       func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStore enables persistence
func WithStore(docs store.DocumentStore) Option {
	return func(p *Pipeline) { p.docs = docs }
}

// WithCache sets the extracted-text cache
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.texts = cache.NewTextCache(c, 0) }
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithRegistry replaces the built-in adapters
func WithRegistry(registry *adapters.Registry) Option {
	return func(p *Pipeline) { p.registry = registry }
}

// WithFetcher replaces the remote document fetcher
func WithFetcher(fetcher *Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = fetcher }
}

// WithValidator replaces the record validator
func WithValidator(v *validate.Validator) Option {
	return func(p *Pipeline) { p.validator = v }
}

// WithDefaults sets the options used by ProcessFile
func WithDefaults(opts Options) Option {
	return func(p *Pipeline) { p.defaults = opts }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, engine *classify.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:  adapters.NewRegistry(),
		texts:     cache.NewTextCache(cache.Nop{}, 0),
		engine:    engine,
		validator: validate.NewValidator(nil),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		logger:    logging.NewNop(),
		config:    cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.fetcher == nil {
		p.fetcher = NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.RespectRobots, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		p.fetcher.SetLimiter(worker.NewLimiterFromConfig(cfg.RateLimiting))
	}
	return p
}

// Registry returns the adapter registry
func (p *Pipeline) Registry() *adapters.Registry {
	return p.registry
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ProcessFile processes a local path or an http(s) URL with the default
// options. Extraction failures are reported in the FileReport; the error
// is reserved for cancellation and persistence failures.
func (p *Pipeline) ProcessFile(ctx context.Context, source string) (*model.FileReport, error) {
	return p.ProcessSource(ctx, source, p.defaults)
}

// ProcessSource is ProcessFile with explicit options
func (p *Pipeline) ProcessSource(ctx context.Context, source string, opts Options) (*model.FileReport, error) {
	name, origin, data, err := p.load(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return p.failed(ctx, name, origin, nil, err, opts)
	}
	return p.ProcessBytes(ctx, name, origin, data, opts)
}

// Explain extracts the text of source and returns the evidence behind
// the classification of every publication block.
func (p *Pipeline) Explain(ctx context.Context, source string, mode Mode) ([]classify.Explanation, error) {
	name, _, data, err := p.load(ctx, source)
	if err != nil {
		return nil, err
	}
	text, _, _, err := p.extractText(ctx, name, data)
	if err != nil {
		return nil, err
	}
	if mode == ModeSingle {
		explanation, err := p.engine.ExplainText(ctx, text)
		if err != nil {
			return nil, err
		}
		return []classify.Explanation{explanation}, nil
	}
	return p.engine.ExplainPublications(ctx, text)
}

// load reads a local file or fetches a URL. The returned name and origin
// are usable even when err is set.
func (p *Pipeline) load(ctx context.Context, source string) (string, string, []byte, error) {
	if isURL(source) {
		result, err := p.fetcher.FetchWithRetry(ctx, source)
		if err != nil {
			return fileNameOf(source), source, nil, fmt.Errorf("fetch: %w", err)
		}
		return result.FileName, result.FinalURL, result.Body, nil
	}

	data, err := readFileLimited(source, p.config.HTTP.MaxBodyBytes)
	return filepath.Base(source), source, data, err
}

// ProcessReader processes an uploaded file
func (p *Pipeline) ProcessReader(ctx context.Context, name string, r io.Reader, opts Options) (*model.FileReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return p.failed(ctx, name, name, nil, fmt.Errorf("read upload: %w", err), opts)
	}
	return p.ProcessBytes(ctx, name, name, data, opts)
}

// ProcessBytes runs extraction, classification, validation and the
// record policy over one file's contents.
func (p *Pipeline) ProcessBytes(ctx context.Context, name, source string, data []byte, opts Options) (*model.FileReport, error) {
	start := p.now()
	logger := p.logger.With(logging.String("file", name), logging.String("mode", opts.Mode.String()))

	if _, err := p.registry.FindAdapter(name); err != nil {
		return p.failed(ctx, name, source, data, fmt.Errorf("%w (supported: %s)", err,
			strings.Join(p.registry.SupportedExtensions(), ", ")), opts)
	}

	text, hash, hit, err := p.extractText(ctx, name, data)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("text extraction failed", logging.Err(err))
		return p.failed(ctx, name, source, data, fmt.Errorf("extract text: %w", err), opts)
	}

	results, contents, err := p.classify(ctx, text, opts.Mode)
	if err != nil {
		logger.Error("classification failed", logging.Err(err))
		return p.failed(ctx, name, source, data, err, opts)
	}

	report := &model.FileReport{
		FileName:    name,
		Source:      source,
		Format:      adapters.Extension(name),
		ContentHash: hash,
		ProcessedAt: start.UTC(),
		TextLength:  len(text),
		CacheHit:    hit,
		Results:     results,
	}

	docs := make([]model.Document, 0, len(results))
	for i, result := range results {
		doc := documentFromResult(result, name, source, i+1)
		if p.config.Output.StoreContent {
			doc.Content = contents[i]
		}
		if !result.Resolved() && opts.DefaultSector != "" {
			doc.Sector = opts.DefaultSector
		}
		docs = append(docs, doc)
	}
	p.validator.ValidateAll(docs)
	if opts.Mode == ModeSingle && len(docs) == 1 {
		p.validator.ValidateWhole(&docs[0], text)
	}

	if p.config.Output.SkipUnresolved {
		kept := docs[:0]
		for _, doc := range docs {
			if doc.Sector == model.SectorNotApplicable {
				report.Skipped++
				continue
			}
			kept = append(kept, doc)
		}
		docs = kept
	}

	if err := p.persist(ctx, report, docs, opts); err != nil {
		return report, err
	}

	logger.Info("file processed",
		logging.Int("publications", len(results)),
		logging.Int("records", len(report.Documents)),
		logging.Int("skipped", report.Skipped),
		logging.Bool("cache_hit", hit),
		logging.Duration("elapsed", p.now().Sub(start)))

	return report, nil
}

func (p *Pipeline) classify(ctx context.Context, text string, mode Mode) ([]model.ClassificationResult, []string, error) {
	if mode == ModeSingle {
		result, err := p.engine.Classify(ctx, text)
		if err != nil {
			return nil, nil, err
		}
		return []model.ClassificationResult{result}, []string{text}, nil
	}

	publications, err := p.engine.ExtractPublications(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	results := make([]model.ClassificationResult, len(publications))
	contents := make([]string, len(publications))
	for i, pub := range publications {
		results[i] = pub.Result
		contents[i] = pub.Block.Text
	}
	return results, contents, nil
}

// extractText returns the file text, consulting the cache by content hash
func (p *Pipeline) extractText(ctx context.Context, name string, data []byte) (string, string, bool, error) {
	hash := cache.ContentHash(data)
	if entry, ok := p.texts.Get(hash); ok {
		return entry.Text, hash, true, nil
	}

	text, adapterName, err := p.registry.Extract(ctx, name, data)
	if err != nil {
		return "", hash, false, err
	}

	entry := cache.TextEntry{Text: text, Adapter: adapterName, ExtractedAt: p.now().UTC()}
	if err := p.texts.Put(hash, entry); err != nil {
		p.logger.Warn("cache write failed", logging.String("file", name), logging.Err(err))
	}
	return text, hash, false, nil
}

// failed builds the report for a file that could not be processed. The
// file still yields one ERRO record so batch and export listings show it.
func (p *Pipeline) failed(ctx context.Context, name, source string, data []byte, cause error, opts Options) (*model.FileReport, error) {
	report := &model.FileReport{
		FileName:     name,
		Source:       source,
		Format:       adapters.Extension(name),
		ProcessedAt:  p.now().UTC(),
		ErrorMessage: cause.Error(),
	}
	if data != nil {
		report.ContentHash = cache.ContentHash(data)
	}

	doc := model.Document{
		ProcessNumber: model.ProcessNumberError,
		Sector:        model.SectorNotApplicable,
		Type:          model.TypeOutros,
		FileName:      name,
		Source:        source,
		ErrorMessage:  cause.Error(),
	}

	p.logger.Warn("file failed", logging.String("file", name), logging.Err(cause))

	if err := p.persist(ctx, report, []model.Document{doc}, opts); err != nil {
		return report, err
	}
	return report, nil
}

func (p *Pipeline) persist(ctx context.Context, report *model.FileReport, docs []model.Document, opts Options) error {
	if !opts.Persist || p.docs == nil || len(docs) == 0 {
		report.Documents = docs
		return nil
	}

	saved, err := p.docs.SaveDocuments(ctx, docs)
	if err != nil {
		report.Documents = docs
		return fmt.Errorf("save documents: %w", err)
	}
	report.Documents = saved
	return nil
}

func documentFromResult(r model.ClassificationResult, name, source string, publication int) model.Document {
	number := r.ProcessNumber
	if number == "" {
		number = model.ProcessNumberAbsent
	}
	return model.Document{
		ProcessNumber:     number,
		Sector:            r.Sector,
		SectorKeywordUsed: r.SectorKeywordUsed,
		Type:              r.Type,
		Confidence:        r.Confidence,
		PublicationDate:   r.PublicationDate,
		FileName:          name,
		Source:            source,
		Publication:       publication,
	}
}

func readFileLimited(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fileNameOf(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// IsUnsupported reports whether a report failed on an unknown format
func IsUnsupported(report *model.FileReport, err error) bool {
	if errors.Is(err, adapters.ErrUnsupportedFormat) {
		return true
	}
	return report != nil && strings.HasPrefix(report.ErrorMessage, adapters.ErrUnsupportedFormat.Error())
}
