// Package server provides the read-only http api: status, watch-list, recent matches and dry-run title check.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/anime-notifier/pkg/domain"
	"github.com/umputun/anime-notifier/pkg/matcher"
	"github.com/umputun/anime-notifier/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler
//go:generate moq -out mocks/matcher.go -pkg mocks -skip-ensure -fmt goimports . Matcher

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	scheduler Scheduler
	matcher   Matcher
	notifiers []string
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Scheduler provides recent matches and processing stats
type Scheduler interface {
	Recent() []domain.Match
	Stats() scheduler.Stats
}

// Matcher provides the watch-list and dry-run matching
type Matcher interface {
	Entries() []domain.WatchEntry
	Candidates(title string) []domain.WatchEntry
	Match(title string) (domain.Match, bool)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Params for New
type Params struct {
	Config    ConfigProvider
	Scheduler Scheduler
	Matcher   Matcher
	Notifiers []string // names of active notifiers, reported by status
	Version   string
	Debug     bool
}

// CheckResult is a dry-run match of a title, nothing is delivered
type CheckResult struct {
	Title      string              `json:"title"`
	Stripped   string              `json:"stripped"`
	Normalized string              `json:"normalized"`
	Numbers    []string            `json:"numbers"`
	Candidates []domain.WatchEntry `json:"candidates"`
	Match      *domain.Match       `json:"match,omitempty"`
}

// New initializes a new server instance
func New(p Params) *Server {
	s := &Server{
		config:    p.Config,
		scheduler: p.Scheduler,
		matcher:   p.Matcher,
		notifiers: p.Notifiers,
		version:   p.Version,
		debug:     p.Debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
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

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("anime-notifier", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
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
		r.HandleFunc("GET /watchlist", s.watchListHandler)
		r.HandleFunc("GET /matches", s.matchesHandler)
		r.HandleFunc("GET /check", s.checkHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"version":   s.version,
		"time":      time.Now().UTC(),
		"notifiers": s.notifiers,
		"stats":     s.scheduler.Stats(),
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// watchListHandler returns the effective watch-list, configured and imported entries
func (s *Server) watchListHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.matcher.Entries())
}

// matchesHandler returns recent matches, newest first. Optional "limit" query param.
func (s *Server) matchesHandler(w http.ResponseWriter, r *http.Request) {
	matches := s.scheduler.Recent()
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			RenderError(w, r, fmt.Errorf("invalid limit %q", l), http.StatusBadRequest)
			return
		}
		if limit < len(matches) {
			matches = matches[:limit]
		}
	}
	RenderJSON(w, r, http.StatusOK, matches)
}

// checkHandler runs title through the matcher without delivery
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		RenderError(w, r, errors.New("title is required"), http.StatusBadRequest)
		return
	}

	res := CheckResult{
		Title:      title,
		Stripped:   matcher.Strip(title),
		Normalized: matcher.Normalize(title),
		Numbers:    matcher.Numbers(title),
		Candidates: s.matcher.Candidates(title),
	}
	if m, ok := s.matcher.Match(title); ok {
		res.Match = &m
	}
	RenderJSON(w, r, http.StatusOK, res)
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

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
