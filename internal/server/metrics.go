package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus instruments. Each server carries
// its own registry so tests can run servers side by side without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ActivitiesIngested prometheus.Counter
	BatchesRejected    *prometheus.CounterVec
	ActivitiesDeleted  prometheus.Counter
	HeartbeatsTotal    prometheus.Counter
}

// NewMetrics creates and registers the server metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codepulse_http_requests_total",
				Help: "Total HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codepulse_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by method and route",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "route"},
		),

		ActivitiesIngested: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "codepulse_activities_ingested_total",
				Help: "Total activity events accepted and persisted",
			},
		),

		BatchesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codepulse_batches_rejected_total",
				Help: "Total ingestion batches rejected, by reason",
			},
			[]string{"reason"}, // "validation", "unknown_user", "malformed"
		),

		ActivitiesDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "codepulse_activities_deleted_total",
				Help: "Total activity events removed by prune requests",
			},
		),

		HeartbeatsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "codepulse_heartbeats_total",
				Help: "Total heartbeat pings received",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records per-request count and duration. The route label uses
// the registered path pattern, not the raw URI, to bound cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "/"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.RequestsTotal.WithLabelValues(method, route, status).Inc()
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
