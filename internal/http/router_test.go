package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplehub/internal/platform/metrics"
	request "peoplehub/pkg/platform/middleware/request"
	"peoplehub/pkg/requestcontext"
	"peoplehub/pkg/testutil"
)

type echoModule struct{}

func (echoModule) Register(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Seen-Request-ID", requestcontext.RequestID(ctx))
		if requestcontext.Now(ctx).IsZero() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

func TestRouterMiddlewareChain(t *testing.T) {
	router := NewRouter(Options{}, echoModule{})

	req := testutil.NewRequest(t, http.MethodGet, "/echo")
	req.Header.Set(request.HeaderRequestID, "abc-123")
	rec := testutil.DoRequest(router, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(request.HeaderRequestID))
	assert.Equal(t, "abc-123", rec.Header().Get("X-Seen-Request-ID"))

	rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/panic"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	healthy := NewRouter(Options{Checks: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}})
	rec := testutil.DoRequest(healthy, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	require.Equal(t, http.StatusOK, rec.Code)
	testutil.AssertJSONContains(t, rec, "status", "ok")

	degraded := NewRouter(Options{Checks: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}})
	rec = testutil.DoRequest(degraded, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := testutil.UnmarshalResponse[struct {
		Dependencies map[string]string `json:"dependencies"`
	}](t, rec)
	assert.Equal(t, "down", body.Dependencies["redis"])
	assert.Equal(t, "ok", body.Dependencies["postgres"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(Options{Metrics: metrics.NewHTTP(reg), Gatherer: reg}, echoModule{})

	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/echo"))
	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `peoplehub_http_requests_total{method="GET",route="/echo",status="204"} 1`)
}
