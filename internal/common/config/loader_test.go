package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: evaluator-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "evaluator-test", cfg.App.Name)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.Backend.BaseURL)
	assert.Equal(t, "/predict", cfg.Backend.PredictPath)
	assert.Equal(t, 0, cfg.Backend.Timeout)
	assert.Equal(t, InFlightLocal, cfg.InFlight.Backend)
	assert.True(t, cfg.Render.ClampBars)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
}

func TestLoadFromFile_FileValues(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://evaluator.example.com/
  predict_path: api/predict
  timeout_ms: 2500
inflight:
  backend: redis
  key: evaluator:slot
redis:
  address: localhost:6379
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://evaluator.example.com/api/predict", cfg.Backend.PredictURL())
	assert.Equal(t, 2500*time.Millisecond, GetDuration(cfg.Backend.Timeout))
	assert.Equal(t, InFlightRedis, cfg.InFlight.Backend)
	assert.Equal(t, "evaluator:slot", cfg.InFlight.Key)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_EnvOverrideAndExpansion(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.internal:8000")
	t.Setenv("EVALUATOR_REDIS_ADDR", "cache:6379")
	path := writeConfig(t, "redis:\n  address: ${EVALUATOR_REDIS_ADDR}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "relative base url",
			body: "backend:\n  base_url: localhost\n",
			want: "backend.base_url must be an absolute URL",
		},
		{
			name: "negative timeout",
			body: "backend:\n  timeout_ms: -1\n",
			want: "backend.timeout_ms must not be negative",
		},
		{
			name: "redis without address",
			body: "inflight:\n  backend: redis\n",
			want: "redis.address is required",
		},
		{
			name: "unknown guard",
			body: "inflight:\n  backend: etcd\n",
			want: "inflight.backend must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPredictURL(t *testing.T) {
	assert.Equal(t, "http://h/predict", BackendConfig{BaseURL: "http://h", PredictPath: "/predict"}.PredictURL())
	assert.Equal(t, "http://h/predict", BackendConfig{BaseURL: "http://h//", PredictPath: "predict"}.PredictURL())
}
