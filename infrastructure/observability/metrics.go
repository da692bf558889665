package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector holds the Prometheus metrics of the API client. Each collector
// owns its registry so tests and multiple clients never collide.
type Collector struct {
	registry *prometheus.Registry

	// Outgoing API calls
	APIRequests *prometheus.CounterVec
	APIDuration *prometheus.HistogramVec

	// Session events
	Unauthorized prometheus.Counter
	Redirects    *prometheus.CounterVec
}

// NewCollector creates a collector with the given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	apiRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of requests sent to the platform API",
		},
		[]string{"method", "route", "status"},
	)

	apiDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Platform API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	unauthorized := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unauthorized_responses_total",
			Help:      "Total number of 401 responses that cleared the session",
		},
	)

	redirects := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_redirects_total",
			Help:      "Navigations redirected by the route guard",
		},
		[]string{"reason"},
	)

	registry.MustRegister(apiRequests, apiDuration, unauthorized, redirects)

	return &Collector{
		registry:     registry,
		APIRequests:  apiRequests,
		APIDuration:  apiDuration,
		Unauthorized: unauthorized,
		Redirects:    redirects,
	}
}

// ObserveRequest records one finished API call. status is 0 when no
// response was received.
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	route := RouteLabel(path)
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	c.APIRequests.WithLabelValues(method, route, statusLabel).Inc()
	c.APIDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if status == http.StatusUnauthorized {
		c.Unauthorized.Inc()
	}
}

// ObserveRedirect records a guard redirect.
func (c *Collector) ObserveRedirect(reason string) {
	if c == nil {
		return
	}
	c.Redirects.WithLabelValues(reason).Inc()
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the collector in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on listen until ctx is done.
func (c *Collector) Serve(ctx context.Context, listen string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics", zap.String("listen", listen))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RouteLabel collapses numeric path segments so metric cardinality stays
// bounded: /texts/42/sections becomes /texts/{id}/sections.
func RouteLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
