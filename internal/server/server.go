// Package server exposes the highlight pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/highlights-cli/internal/model"
)

// Service is the pipeline surface the HTTP layer depends on.
type Service interface {
	ProcessProject(ctx context.Context, projectID string, force bool) (*model.ProjectResult, error)
	ProcessBatch(ctx context.Context, projectIDs []string, concurrency int, force bool) (*model.BatchResult, error)
	ListHighlights(ctx context.Context, projectID string) ([]model.Highlight, error)
}

// Server wraps the HTTP server and its router.
type Server struct {
	svc  Service
	http *http.Server
}

// New builds a Server listening on the given port.
func New(svc Service, port int) *Server {
	s := &Server{svc: svc}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/process-single", s.handleProcessSingle)
		r.Post("/process-multiple", s.handleProcessMultiple)
		r.Get("/projects/{projectID}/highlights", s.handleListHighlights)
	})

	return r
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
