// Package server exposes the generation workflow over HTTP: a small JSON
// API to start and inspect runs, plus a server-sent-events stream of
// workflow progress for dashboards.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bookforge/internal/config"
	"bookforge/internal/events"
	"bookforge/internal/services"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	cfg      *config.Config
	services *services.Services
	logger   zerolog.Logger
	hub      *Hub
	engine   *gin.Engine
}

func New(cfg *config.Config, svcs *services.Services, logger zerolog.Logger) *Server {
	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		services: svcs,
		logger:   logger,
		hub:      NewHub(),
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.routes()
	return s
}

// Engine returns the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Hub returns the progress fan-out used by the SSE endpoint.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/runs", s.handleCreateRun)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:key", s.handleGetRun)
	api.GET("/runs/:key/events", s.handleStreamRun)
	api.GET("/models", s.handleListModels)
	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings/:field", s.handleSetSetting)
}

// Run serves until ctx is cancelled, then shuts down gracefully. The hub is
// installed as the process-wide event emitter for the server's lifetime.
func (s *Server) Run(ctx context.Context) error {
	events.SetCustomEmitter(s.hub.Publish)
	defer events.SetCustomEmitter(nil)

	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
