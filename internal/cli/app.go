package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/juridico/internal/cache"
	"github.com/ppiankov/juridico/internal/catalog"
	"github.com/ppiankov/juridico/internal/classify"
	"github.com/ppiankov/juridico/internal/logging"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/pipeline"
	"github.com/ppiankov/juridico/internal/score"
	"github.com/ppiankov/juridico/internal/store"
	"github.com/ppiankov/juridico/internal/store/memstore"
	"github.com/ppiankov/juridico/internal/store/sqlite"
	"github.com/ppiankov/juridico/internal/validate"
)

// app holds the components a command needs, built from one Config
type app struct {
	cfg      *model.Config
	logger   logging.Logger
	store    store.Store
	pipeline *pipeline.Pipeline
}

// newApp loads the configuration and wires logger, store, engine and
// pipeline. Callers must call close.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildApp(ctx, cfg, pipeline.Options{})
}

// buildApp wires the components for cfg; defaults are the pipeline
// options used by batch processing.
func buildApp(ctx context.Context, cfg *model.Config, defaults pipeline.Options) (*app, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	engineOpts := []classify.Option{classify.WithLogger(logger)}
	if cfg.Catalog.KeywordsFile != "" {
		defaults, err := catalog.LoadDefaults(cfg.Catalog.KeywordsFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		engineOpts = append(engineOpts, classify.WithDefaults(defaults))
	}
	if cfg.Catalog.SectorsFile != "" {
		table, err := score.LoadSectors(cfg.Catalog.SectorsFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		engineOpts = append(engineOpts, classify.WithSectors(table))
	}
	engine := classify.NewEngine(st, engineOpts...)

	p := pipeline.NewPipeline(cfg, engine,
		pipeline.WithStore(st),
		pipeline.WithCache(cache.New(cfg.Cache)),
		pipeline.WithValidator(validate.NewValidator(validate.NewCourtClassifier(cfg.Catalog.Courts))),
		pipeline.WithLogger(logger),
		pipeline.WithDefaults(defaults),
	)

	return &app{cfg: cfg, logger: logger, store: st, pipeline: p}, nil
}

func (a *app) close() {
	_ = a.store.Close()
	_ = a.logger.Sync()
}

// openStore opens the configured document and keyword store
func openStore(ctx context.Context, cfg model.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memstore.New(), nil
	case "", "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
		return sqlite.Open(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q (use sqlite or memory)", cfg.Driver)
	}
}
