// Package server implements the shedwatch HTTP API server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kvanzyl/shedwatch/internal/engine"
	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

const defaultMaxRequestBody = 1 << 20

// Server is the shedwatch HTTP API server.
type Server struct {
	engine   *engine.Engine
	provider provider.Provider
	current  *stagefeed.CurrentStage
	router   chi.Router
	addr     string
	srv      *http.Server
}

// New creates a new HTTP server.
func New(cfg types.ServerConfig, eng *engine.Engine, prov provider.Provider, current *stagefeed.CurrentStage) *Server {
	s := &Server{
		engine:   eng,
		provider: prov,
		current:  current,
		addr:     cfg.Addr,
	}
	if s.addr == "" {
		s.addr = ":3000"
	}

	maxBody := cfg.MaxRequestBody
	if maxBody <= 0 {
		maxBody = defaultMaxRequestBody
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(APIKeyMiddleware(cfg.APIKey))
	r.Use(MaxBodyMiddleware(maxBody))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router = r
	s.registerRoutes(r)
	return s
}

// Handler returns the configured router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	fmt.Printf("shedwatch server listening on %s\n", s.addr)
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
