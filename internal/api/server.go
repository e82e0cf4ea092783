// Package api exposes the dose-safety engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/chemo-dose-safety-server/internal/database"
	"github.com/chemo-dose-safety-server/internal/domain"
	"github.com/chemo-dose-safety-server/internal/formulary"
	"github.com/chemo-dose-safety-server/internal/middleware"
	"github.com/chemo-dose-safety-server/internal/review"
)

// doseEngine is the slice of the engine the API needs.
type doseEngine interface {
	CalculateWithIdentity(patient *domain.PatientProfile, drug *domain.Drug, identity domain.DrugIdentity, standardDose float64, unit, indication string) (*domain.EngineResult, error)
	MonitoringRecommendations(patient *domain.PatientProfile, drug *domain.Drug) ([]domain.MonitoringRecommendation, error)
}

// HealthChecker reports backing-service health for /health. A nil value
// means there is no backing service to check.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server represents the HTTP server.
type Server struct {
	config   *domain.Config
	logger   *logrus.Logger
	engine   doseEngine
	resolver formulary.Resolver
	reviews  review.Store
	dbHealth HealthChecker

	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server instance. dbHealth may be nil when
// the review store runs on SQLite.
func NewServer(
	config *domain.Config,
	logger *logrus.Logger,
	engine doseEngine,
	resolver formulary.Resolver,
	reviews review.Store,
	dbHealth HealthChecker,
) *Server {
	// A nil *database.DB wrapped in the interface is still non-nil;
	// treat it as no backing database rather than pinging through it.
	if db, ok := dbHealth.(*database.DB); ok && db == nil {
		dbHealth = nil
	}

	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware())

	server := &Server{
		config:   config,
		logger:   logger,
		engine:   engine,
		resolver: resolver,
		reviews:  reviews,
		dbHealth: dbHealth,
		router:   router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/dose-check", s.handleDoseCheck)
		v1.POST("/monitoring", s.handleMonitoring)
		v1.POST("/reviews", s.handleSaveReview)
		v1.GET("/reviews", s.handleListReviews)
	}
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
