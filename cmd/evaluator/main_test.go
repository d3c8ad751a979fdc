package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"partner-evaluator/internal/common/config"
	"partner-evaluator/internal/common/logger"
	"partner-evaluator/internal/evaluation/controller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, backend http.HandlerFunc) (*controller.Controller, *config.Config) {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		App:      config.AppConfig{Name: "partner-evaluator", Version: "1.0.0"},
		Backend:  config.BackendConfig{BaseURL: server.URL, PredictPath: "/predict"},
		InFlight: config.InFlightConfig{Backend: config.InFlightLocal},
		Render:   config.RenderConfig{ClampBars: true},
	}
	deps, err := controller.FromConfig(cfg, nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	ctrl, err := controller.New(deps)
	require.NoError(t, err)
	return ctrl, cfg
}

func okBackend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"probability":80,"reachScore":60,"relevanceScore":40,"salesPitch":"Great fit"}`))
}

func TestSurfaceWriter(t *testing.T) {
	for _, format := range []string{"", "text", "markdown", "md", "html"} {
		w, err := surfaceWriter(format)
		require.NoError(t, err, format)
		assert.NotNil(t, w)
	}
	_, err := surfaceWriter("pdf")
	assert.Error(t, err)
}

func TestEvaluate_PrintsSurface(t *testing.T) {
	ctrl, _ := newTestController(t, okBackend)
	write, _ := surfaceWriter("markdown")

	var out bytes.Buffer
	require.NoError(t, evaluate(context.Background(), ctrl, "https://example.com", write, &out))
	assert.Contains(t, out.String(), "**Partnership Probability:** 80%")
	assert.Contains(t, out.String(), "Great fit")
}

func TestRunLoop_SubmitsEachLine(t *testing.T) {
	ctrl, _ := newTestController(t, okBackend)
	write, _ := surfaceWriter("text")

	var out bytes.Buffer
	runLoop(context.Background(), ctrl, strings.NewReader("https://a.example\n\nhttps://b.example\n"), write, &out)

	assert.Equal(t, 2, strings.Count(out.String(), "Partnership Probability:"))
	assert.Contains(t, out.String(), "Error: Please enter a URL")
}

func TestHealthAndReady(t *testing.T) {
	ctrl, cfg := newTestController(t, okBackend)
	mux := newMux(ctrl, cfg)

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, []string{"healthy", "ready"}, body["status"])
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
