package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ianct-client/infrastructure/config"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.GetRegistry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, labels map[string]string) bool {
	for _, lp := range m.GetLabel() {
		if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/texts/42/sections":   "/texts/{id}/sections",
		"/texts?projectId=3":   "/texts",
		"/geo/marker/7/11":     "/geo/marker/{id}/{id}",
		"/analysis/9/insights": "/analysis/{id}/insights",
		"/auth/login":          "/auth/login",
		"/projects/mine":       "/projects/mine",
	}
	for in, want := range tests {
		assert.Equal(t, want, RouteLabel(in), in)
	}
}

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector("test")

	c.ObserveRequest(http.MethodGet, "/texts/1", 200, 10*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/texts/2", 200, 10*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/user/me", 401, time.Millisecond)
	c.ObserveRequest(http.MethodPost, "/texts", 0, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, c, "test_api_requests_total",
		map[string]string{"method": "GET", "route": "/texts/{id}", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, c, "test_api_requests_total",
		map[string]string{"method": "POST", "route": "/texts", "status": "error"}))
	assert.Equal(t, 1.0, counterValue(t, c, "test_unauthorized_responses_total", nil))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest(http.MethodGet, "/x", 200, time.Millisecond)
		c.ObserveRedirect("login")
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.ObserveRedirect("login")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_guard_redirects_total{reason="login"} 1`)
}

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(config.Tracing{Enabled: false}, config.Test)
	require.NoError(t, err)

	_, span := tp.StartSpan(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}
