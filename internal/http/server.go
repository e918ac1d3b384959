// Package http provides the REST API for specforged.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/specforge/internal/entity"
	"github.com/fyrsmithlabs/specforge/internal/store"
)

// systemUserID stamps activity rows; there is no authentication layer.
const systemUserID = "system"

// Server provides the HTTP endpoints for specforged.
type Server struct {
	echo   *echo.Echo
	store  store.Store
	logger *zap.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// RateLimit is requests per second per client IP. Zero disables the
	// limiter.
	RateLimit float64
}

// NewServer creates a new HTTP server.
func NewServer(st store.Store, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:      "localhost",
			Port:      8080,
			RateLimit: 20,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit)),
		}))
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	metrics := NewHTTPMetrics(logger)
	e.Use(metrics.MetricsMiddleware())

	s := &Server{
		echo:   e,
		store:  st,
		logger: logger,
		config: cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/projects", s.handleListProjects)
	api.POST("/projects", s.handleCreateProject)
	api.GET("/projects/:id", s.handleGetProject)
	api.PATCH("/projects/:id", s.handleUpdateProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)

	api.GET("/projects/:projectId/stakeholders", s.handleListStakeholders)
	api.POST("/projects/:projectId/stakeholders", s.handleCreateStakeholder)
	api.DELETE("/stakeholders/:id", s.handleDeleteStakeholder)

	api.GET("/projects/:projectId/milestones", s.handleListMilestones)
	api.POST("/projects/:projectId/milestones", s.handleCreateMilestone)

	api.GET("/projects/:projectId/requirements", s.handleGetRequirements)
	api.POST("/projects/:projectId/requirements", s.handleUpsertRequirements)

	api.GET("/projects/:projectId/data-fields", s.handleListDataFields)
	api.POST("/projects/:projectId/data-fields", s.handleCreateDataField)
	api.POST("/projects/:projectId/data-fields/reorder", s.handleReorderDataFields)
	api.PATCH("/data-fields/:id", s.handleUpdateDataField)
	api.DELETE("/data-fields/:id", s.handleDeleteDataField)

	api.GET("/projects/:projectId/features", s.handleListFeatures)
	api.POST("/projects/:projectId/features", s.handleCreateFeature)
	api.POST("/projects/:projectId/features/reorder", s.handleReorderFeatures)
	api.PATCH("/features/:id", s.handleUpdateFeature)
	api.DELETE("/features/:id", s.handleDeleteFeature)

	api.GET("/projects/:projectId/versions", s.handleListVersions)
	api.POST("/projects/:projectId/versions", s.handleCreateVersion)

	api.GET("/projects/:projectId/activity", s.handleListActivity)

	api.POST("/projects/:projectId/generate-frs", s.handleGenerateFRS)
	api.GET("/projects/:projectId/export", s.handleExport)
	api.GET("/projects/:projectId/progress", s.handleProgress)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// storeError maps store failures onto the API error taxonomy: unknown
// IDs become 404, anything else a generic 500 with the cause logged but
// not exposed.
func (s *Server) storeError(c echo.Context, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	s.logger.Error("store operation failed",
		zap.Error(err),
		zap.String("path", c.Path()),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// logActivity appends the audit row for a successful mutation. It runs
// synchronously in the request, after the primary mutation and before
// the response. Append failures are logged, not surfaced; the mutation
// already happened.
func (s *Server) logActivity(ctx context.Context, projectID, action, description string) {
	_, err := s.store.AppendActivity(ctx, &entity.ActivityEntry{
		ProjectID:   projectID,
		Action:      action,
		Description: description,
		UserID:      systemUserID,
	})
	if err != nil {
		s.logger.Warn("failed to append activity",
			zap.String("action", action),
			zap.String("project_id", projectID),
			zap.Error(err),
		)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
