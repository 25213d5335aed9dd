// Package server exposes the label collection and export pipeline over a
// small JSON API, for deployments where labelforge runs as a shared
// service instead of a per-user CLI.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labelforge/labelforge/pkg/config"
	"github.com/labelforge/labelforge/pkg/export"
	"github.com/labelforge/labelforge/pkg/store"
)

// Server holds the API's dependencies.
type Server struct {
	store    store.Store
	exporter *export.Exporter
	cfg      config.Config
	logger   *log.Logger
}

// New assembles a server. A nil logger falls back to log.Default().
func New(st store.Store, ex *export.Exporter, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, exporter: ex, cfg: cfg, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/records", s.handleListRecords)
		r.Post("/records", s.handleAddRecord)
		r.Delete("/records", s.handleClearRecords)
		r.Delete("/records/{position}", s.handleDeleteRecord)

		r.Get("/layout", s.handleLayout)

		r.Post("/export/document", s.handleExportDocument)
		r.Post("/export/archive", s.handleExportArchive)
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// logRequests logs method, path, and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
