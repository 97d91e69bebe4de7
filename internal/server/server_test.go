package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "freelance_test_total",
		Help: "Test counter.",
	})
	reg.MustRegister(counter)
	counter.Add(3)
	return reg
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Gatherer: prometheus.NewRegistry()})
	assert.Error(t, err)

	_, err = New(Config{Addr: ":0"})
	assert.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	s, err := New(Config{Addr: ":0", Gatherer: newTestRegistry(t)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "freelance_test_total 3")
}

func TestHealthEndpoint(t *testing.T) {
	s, err := New(Config{
		Addr:     ":0",
		Gatherer: prometheus.NewRegistry(),
		Status: func() map[string]string {
			return map[string]string{"schedule": "@every 30m"}
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "@every 30m", resp["schedule"])
}

func TestUnknownMethodRejected(t *testing.T) {
	s, err := New(Config{Addr: ":0", Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/metrics", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	s, err := New(Config{Addr: "127.0.0.1:0", Gatherer: newTestRegistry(t)})
	require.NoError(t, err)
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "freelance_test_total")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, err = http.Get("http://" + s.Addr() + "/health")
	assert.Error(t, err)
}

func TestStart_BindError(t *testing.T) {
	first, err := New(Config{Addr: "127.0.0.1:0", Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second, err := New(Config{Addr: first.Addr(), Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)
	assert.Error(t, second.Start())
}
