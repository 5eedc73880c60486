// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/config"
	"github.com/wouhouch/hub/internal/domain/settings"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/interfaces/http/handlers"
	"github.com/wouhouch/hub/internal/interfaces/http/middleware"
	"github.com/wouhouch/hub/internal/interfaces/http/routes"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/auth"
	"github.com/wouhouch/hub/internal/pkg/metrics"
	"github.com/wouhouch/hub/internal/pkg/pdf"
)

// maxRequestBody caps request bodies; forms are small
const maxRequestBody = 1 << 20

// HealthChecker is a dependency reported by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options are the server's collaborators
type Options struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
	Backend  localstore.Backend
	Client   *apiclient.Client
	Sealer   *auth.Sealer
	Settings *settings.Store
	PDF      *pdf.Service

	// Redis backs the shared rate limiter when set
	Redis *redis.Client

	// Checks are pinged by /health, keyed by name
	Checks map[string]HealthChecker
}

// Server represents the HTTP server
type Server struct {
	opts       Options
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with its routes registered
func NewServer(opts Options) *Server {
	if opts.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		opts:      opts,
		gin:       gin.New(),
		startedAt: time.Now(),
	}
	if err := s.gin.SetTrustedProxies(opts.Config.Security.TrustedProxies); err != nil {
		opts.Logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	cfg := s.opts.Config
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	s.opts.Logger.WithFields(logrus.Fields{
		"port":    cfg.Server.Port,
		"backend": cfg.API.BaseURL,
		"storage": cfg.Storage.Driver,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.opts.Logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.opts.Logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	cfg := s.opts.Config

	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.opts.Logger))
	s.gin.Use(middleware.CORS(cfg))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(cfg, s.opts.Redis, s.opts.Logger))
	s.gin.Use(middleware.RequestSizeLimit(maxRequestBody))
	s.gin.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if s.opts.Metrics != nil {
		s.gin.Use(s.opts.Metrics.Middleware())
	}
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	if s.opts.Metrics != nil {
		s.gin.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
	}

	session := middleware.SessionDeps{
		Config:  s.opts.Config,
		Backend: s.opts.Backend,
		Client:  s.opts.Client,
		Logger:  s.opts.Logger,
	}
	if s.opts.Metrics != nil {
		session.Recorder = s.opts.Metrics
	}

	browsers := s.gin.Group("")
	browsers.Use(middleware.Session(session))

	routes.SetupRoutes(browsers, routes.Dependencies{
		Handlers: handlers.Deps{
			Config:  s.opts.Config,
			Logger:  s.opts.Logger,
			Metrics: s.opts.Metrics,
		},
		Sealer:   s.opts.Sealer,
		Settings: s.opts.Settings,
		PDF:      s.opts.PDF,
	})
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	for name, checker := range s.opts.Checks {
		if err := checker.Health(ctx); err != nil {
			s.opts.Logger.WithError(err).WithField("check", name).Warn("Health check failed")
			checks[name] = "unhealthy"
			healthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"checks":      checks,
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
		"version":     s.opts.Config.App.Version,
		"environment": s.opts.Config.App.Environment,
	})
}
