// Package server exposes an upgrade panel over HTTP.
//
// The server owns one economy and one panel. Every request that reads or
// changes them holds the server mutex, since neither is safe for concurrent
// use.
//
//	GET  /healthz                      build information
//	GET  /api/layout                   layout JSON of the current view
//	GET  /api/layout.svg               SVG of the current view
//	GET  /api/render/{format}          svg, dot, png or json through the pipeline cache
//	POST /api/upgrades/{id}/purchase   buy an upgrade
//	POST /api/gold                     {"amount": n}
//	POST /api/rebuild                  lay the catalog out again
//	POST /api/save                     {"slot": "name"}
//	POST /api/load                     {"slot": "name"}
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/upgradetree/pkg/cache"
	"github.com/matzehuels/upgradetree/pkg/economy"
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/pipeline"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// Config configures a [Server].
type Config struct {
	Addr         string
	Catalog      []upgrade.Def
	StartingGold int
	Engine       engine.Options

	// Runner renders artifacts for /api/render. Nil disables caching.
	Runner *pipeline.Runner

	// Store persists save slots. Nil disables /api/save and /api/load.
	Store economy.Store

	Logger *log.Logger
}

// Server is the HTTP front end of one game.
type Server struct {
	mu      sync.Mutex
	catalog []upgrade.Def
	econ    *economy.Economy
	panel   *engine.Panel

	addr   string
	runner *pipeline.Runner
	store  economy.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server and shows the panel for the configured catalog.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := pipeline.NewRunner(nil, nil, logger)
	if cfg.Runner != nil {
		scoped := *cfg.Runner
		runner = &scoped
	}
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "server:")

	s := &Server{
		catalog: upgrade.Clone(cfg.Catalog),
		addr:    cfg.Addr,
		runner:  runner,
		store:   cfg.Store,
		logger:  logger,
	}
	s.econ = economy.New(s.catalog, cfg.StartingGold, logger)

	engOpts := cfg.Engine
	if engOpts.Logger == nil {
		engOpts.Logger = logger
	}
	s.panel = engine.NewPanel(engine.New(engOpts), s.econ, s.econ.Purchase)
	s.panel.Show(s.catalog)

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/layout.svg", s.handleLayoutSVG)
		r.Get("/render/{format}", s.handleRender)
		r.Post("/upgrades/{id}/purchase", s.handlePurchase)
		r.Post("/gold", s.handleGold)
		r.Post("/rebuild", s.handleRebuild)
		r.Post("/save", s.handleSave)
		r.Post("/load", s.handleLoad)
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
