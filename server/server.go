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

	"github.com/wildmeta/marketpulse/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/summary.go -pkg mocks -skip-ensure -fmt goimports . SummaryProvider

// Server exposes the operational status of the running bots: a ping
// endpoint and the last cycle summary per content source.
type Server struct {
	config    ConfigProvider
	providers []SummaryProvider
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// SummaryProvider reports the latest cycle outcome of one bot
type SummaryProvider interface {
	Source() string
	LastSummary() (domain.CycleSummary, bool)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, providers []SummaryProvider, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		providers: providers,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting status server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down status server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Router exposes the configured handler, used by tests
func (s *Server) Router() http.Handler { return s.router }

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("marketpulse", "wildmeta", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /status", s.statusHandler)
}

// sourceStatus is one bot's entry in the status response
type sourceStatus struct {
	LastCycle *domain.CycleSummary `json:"last_cycle,omitempty"`
	Pending   bool                 `json:"pending"` // true before the first cycle completes
}

// statusHandler returns server status with last cycle summaries per source
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	sources := map[string]sourceStatus{}
	for _, p := range s.providers {
		st := sourceStatus{Pending: true}
		if summary, ok := p.LastSummary(); ok {
			st.LastCycle = &summary
			st.Pending = false
		}
		sources[p.Source()] = st
	}

	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"sources": sources,
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
