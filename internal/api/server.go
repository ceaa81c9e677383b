// internal/api/server.go

// Package api is the thin HTTP boundary in front of the engine. It owns
// transport concerns only: schema validation, routing, serialization and
// status codes. All scoring semantics live in the engine packages.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/observability"
	"credit-engine/internal/engine"
)

// Pinger is the optional cache health dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cfg    *config.Config
	log    logger.Logger
	engine *engine.Engine
	cache  Pinger // nil when no cache is deployed
	obs    *observability.Observability
	router *mux.Router
	http   *http.Server
}

func NewServer(cfg *config.Config, eng *engine.Engine, cache Pinger, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log.WithFields(map[string]interface{}{"component": "api"}),
		engine: eng,
		cache:  cache,
		obs:    obs,
		router: mux.NewRouter(),
	}
	s.routes()
	s.http = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	return s
}

func (s *Server) routes() {
	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/users/{userID}/score", s.handleAnalyze).Methods(http.MethodPost)
	v1.HandleFunc("/users/{userID}/score", s.handleCachedScore).Methods(http.MethodGet)

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("http server listening", map[string]interface{}{
		"address": s.cfg.Server.Address,
	})
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
