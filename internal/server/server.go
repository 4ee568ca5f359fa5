// Package server exposes the ingestion and analytics API over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/blackwell-systems/codepulse/internal/ingest"
	"github.com/blackwell-systems/codepulse/internal/query"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server wires the ingest and query services to their routes.
type Server struct {
	echo    *echo.Echo
	ingest  *ingest.Service
	query   *query.Service
	metrics *Metrics
	logger  *zap.Logger
	config  *Config
	started time.Time
}

// NewServer creates the HTTP server. The logger is required; a nil config
// falls back to localhost:3000.
func NewServer(ing *ingest.Service, qry *query.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if ing == nil || qry == nil {
		return nil, fmt.Errorf("ingest and query services are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 3000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	m := NewMetrics()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
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
	e.Use(m.Middleware())

	s := &Server{
		echo:    e,
		ingest:  ing,
		query:   qry,
		metrics: m,
		logger:  logger,
		config:  cfg,
		started: time.Now(),
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := s.echo.Group("/api")
	api.POST("/activities", s.handleRecord)
	api.GET("/activities", s.handleActivities)
	api.DELETE("/activities", s.handleDelete)
	api.GET("/activities/summary", s.handleDailySummary)

	api.GET("/statistics", s.handleStatistics)
	api.GET("/languages", s.handleLanguages)
	api.GET("/projects", s.handleProjects)
	api.GET("/files", s.handleFiles)
	api.GET("/hours", s.handleHours)
	api.GET("/weekdays", s.handleWeekdays)
	api.GET("/productivity", s.handleProductivity)
	api.GET("/streaks", s.handleStreaks)
	api.GET("/trends", s.handleTrends)

	api.POST("/heartbeat", s.handleHeartbeat)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.started).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.Addr()))
	return s.echo.Start(s.Addr())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
