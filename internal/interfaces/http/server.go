// Package http provides the HTTP adapter for the application layer.
// This is a thin layer translating requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrsuite/requisition-flow/internal/application/service"
	"github.com/hrsuite/requisition-flow/internal/export"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config             ServerConfig
	httpServer         *http.Server
	router             *gin.Engine
	requisitionService service.RequisitionService
	referenceService   service.ReferenceService
	exporter           *export.ExcelExporter
	logger             Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	requisitionService service.RequisitionService,
	referenceService service.ReferenceService,
	exporter *export.ExcelExporter,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:             config,
		router:             gin.New(),
		requisitionService: requisitionService,
		referenceService:   referenceService,
		exporter:           exporter,
		logger:             logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.requisitionService, s.referenceService, s.exporter, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/requisitions", handlers.CreateRequisition)
		api.GET("/requisitions", handlers.ListRequisitions)
		api.GET("/requisitions/:id", handlers.GetRequisition)
		api.POST("/requisitions/:id/actions", handlers.PerformAction)
		api.PUT("/requisitions/:id/candidate", handlers.SaveCandidate)
		api.GET("/requisitions/:id/history", handlers.GetHistory)
		api.GET("/requisitions/:id/export", handlers.ExportRequisition)

		api.GET("/channels", handlers.ListChannels)
		api.GET("/job-titles", handlers.ListJobTitles)
		api.GET("/profiles", handlers.GetProfile)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
