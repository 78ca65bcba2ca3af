// Package server exposes the news read contract over HTTP: paginated and filtered news with
// view counts, view increments, per-category RSS and service status.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/snapshot"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/news.go -pkg mocks -skip-ensure -fmt goimports . NewsProvider
//go:generate moq -out mocks/views.go -pkg mocks -skip-ensure -fmt goimports . ViewStore
//go:generate moq -out mocks/cycle.go -pkg mocks -skip-ensure -fmt goimports . CycleMonitor

// Server represents HTTP server instance
type Server struct {
	Params

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params defines dependencies of the server
type Params struct {
	Config   ConfigProvider
	News     NewsProvider
	Views    ViewStore
	Cycle    CycleMonitor
	Snapshot SnapshotReader
	Location *time.Location
	Version  string
	Debug    bool
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
}

// NewsProvider returns the latest records
type NewsProvider interface {
	GetLatest(ctx context.Context) []domain.NewsRecord
}

// ViewStore keeps per-link view counts
type ViewStore interface {
	Counts(ctx context.Context, links []string) (map[string]int64, error)
	Increment(ctx context.Context, link string) (int64, error)
}

// CycleMonitor reports scrape cycle state
type CycleMonitor interface {
	Running() bool
}

// SnapshotReader gives access to the published snapshot
type SnapshotReader interface {
	Get() *snapshot.Snapshot
}

// New initializes a new server instance
func New(params Params) *Server {
	if params.Location == nil {
		params.Location = time.Local
	}
	s := &Server{
		Params: params,
		router: routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.Config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the router with all middlewares
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newspulse", "umputun", s.Version))
	s.router.Use(rest.Ping)

	if s.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /news", s.newsHandler)
		r.HandleFunc("POST /news/view", s.viewHandler)
	})

	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
