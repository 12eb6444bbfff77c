// Package api exposes the journey over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/database"
	"github.com/ventureforge/ventureforge/pkg/services"
)

// Server is the HTTP API server.
type Server struct {
	cfg             *config.Config
	dbClient        *database.Client
	sessionService  *services.SessionService
	warningsService *services.SystemWarningsService

	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer creates the API server and registers its routes.
func NewServer(cfg *config.Config, dbClient *database.Client, sessionService *services.SessionService) *Server {
	s := &Server{
		cfg:            cfg,
		dbClient:       dbClient,
		sessionService: sessionService,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), securityHeaders())
	s.engine = engine
	s.setupRoutes()
	return s
}

// SetWarningsService exposes active system warnings on /health.
func (s *Server) SetWarningsService(svc *services.SystemWarningsService) {
	s.warningsService = svc
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)

	v1 := s.engine.Group("/api/v1")
	sessions := v1.Group("/sessions")
	sessions.POST("", s.createSessionHandler)
	sessions.GET("", s.listSessionsHandler)
	sessions.GET("/:id", s.getSessionHandler)
	sessions.DELETE("/:id", s.deleteSessionHandler)
	sessions.POST("/:id/messages", s.sendMessageHandler)
	sessions.POST("/:id/restart", s.restartSessionHandler)

	v1.POST("/market/report", s.marketReportHandler)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr until Shutdown is called.
// Returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
