// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Backend  BackendConfig  `mapstructure:"backend"`
	InFlight InFlightConfig `mapstructure:"inflight"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Render   RenderConfig   `mapstructure:"render"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig describes the prediction service the controller submits to.
type BackendConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	PredictPath string `mapstructure:"predict_path"`
	Timeout     int    `mapstructure:"timeout_ms"` // milliseconds, 0 = wait indefinitely
}

// PredictURL joins the base URL and the predict path.
func (b BackendConfig) PredictURL() string {
	base := b.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	path := b.PredictPath
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return base + path
}

// InFlightConfig selects the single-slot guard implementation.
type InFlightConfig struct {
	Backend string `mapstructure:"backend"` // "local" or "redis"
	Key     string `mapstructure:"key"`
	TTL     int    `mapstructure:"ttl_ms"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RenderConfig struct {
	ClampBars bool `mapstructure:"clamp_bars"`
	// RegistryPath optionally points at a JSON file relabelling the display regions.
	RegistryPath string `mapstructure:"registry_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
