// Package server exposes documents, uploads, exports and keywords over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/juridico/internal/logging"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/pipeline"
	"github.com/ppiankov/juridico/internal/store"
)

// Server is the HTTP API
type Server struct {
	cfg      model.ServerConfig
	pipeline *pipeline.Pipeline
	store    store.Store
	logger   logging.Logger
	router   chi.Router
	now      func() time.Time
}

// New creates the API. The pipeline must have been built with
// pipeline.WithStore(st) for uploads to be persisted.
func New(cfg model.ServerConfig, p *pipeline.Pipeline, st store.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50_000_000
	}
	if cfg.MaxMultipleBytes <= 0 {
		cfg.MaxMultipleBytes = 200_000_000
	}

	s := &Server{
		cfg:      cfg,
		pipeline: p,
		store:    st,
		logger:   logger,
		now:      time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", s.handleListDocuments)
		r.Get("/extensions", s.handleExtensions)
		r.Get("/export", s.handleExport)
		r.Post("/upload", s.handleUpload)
		r.Post("/upload-multiple", s.handleUploadMultiple)
		r.Post("/process-export", s.handleProcessExport)
		r.Get("/{id}", s.handleGetDocument)
		r.Put("/{id}", s.handleUpdateDocument)
		r.Delete("/{id}", s.handleDeleteDocument)
	})

	r.Route("/api/keywords", func(r chi.Router) {
		r.Get("/", s.handleListKeywords)
		r.Post("/", s.handleAddKeyword)
		r.Delete("/{id}", s.handleDeleteKeyword)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", logging.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Int("bytes", ww.BytesWritten()),
			logging.String("request_id", middleware.GetReqID(r.Context())),
			logging.Duration("elapsed", s.now().Sub(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store sentinels to HTTP statuses
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidKeyword), errors.Is(err, store.ErrInvalidUpdate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateKeyword):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("store error", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
