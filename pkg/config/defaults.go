package config

import (
	"strings"
	"time"

	httpAdapter "github.com/marmos91/minihttpd/pkg/adapter/http"
)

// Default values shared by ApplyDefaults and the generated sample config.
const (
	DefaultHTTPPort    = 7878
	DefaultMetricsPort = 9090
	DefaultPagesPath   = "./public"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Store-specific defaults are handled by the store factories
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyContentDefaults(&cfg.Content)
	applyAdaptersDefaults(&cfg.Adapters)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = DefaultMetricsPort
	}
}

// applyContentDefaults sets content store defaults.
func applyContentDefaults(cfg *ContentConfig) {
	if cfg.Type == "" {
		cfg.Type = "filesystem"
	}

	if cfg.Filesystem == nil {
		cfg.Filesystem = make(map[string]any)
	}
	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}
	if cfg.S3 == nil {
		cfg.S3 = make(map[string]any)
	}

	if _, ok := cfg.Filesystem["path"]; !ok {
		cfg.Filesystem["path"] = DefaultPagesPath
	}
}

// applyAdaptersDefaults sets adapter defaults.
func applyAdaptersDefaults(cfg *AdaptersConfig) {
	// A config with no http section at all (Port still 0) gets the adapter
	// enabled so a bare `minihttpd start` serves something. An explicit
	// enabled: false next to a port is preserved.
	if !cfg.HTTP.Enabled && cfg.HTTP.Port == 0 {
		cfg.HTTP.Enabled = true
	}

	applyHTTPDefaults(&cfg.HTTP)
}

// applyHTTPDefaults mirrors the adapter's own defaults so validation sees the
// effective values.
func applyHTTPDefaults(cfg *httpAdapter.HTTPConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultHTTPPort
	}
	if cfg.BindAddress == "" {
		cfg.BindAddress = "127.0.0.1"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.ReadBufferSize == 0 {
		cfg.ReadBufferSize = 1024
	}
	if cfg.SleepDelay == 0 {
		cfg.SleepDelay = 5 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.MetricsLogInterval == 0 {
		cfg.MetricsLogInterval = 5 * time.Minute
	}
	if cfg.Pages.Index == "" {
		cfg.Pages.Index = "index.html"
	}
	if cfg.Pages.NotFound == "" {
		cfg.Pages.NotFound = "404.html"
	}
	if cfg.Pages.ServerError == "" {
		cfg.Pages.ServerError = "500.html"
	}
	if cfg.Pages.Missing == "" {
		cfg.Pages.Missing = "non-existent file.html"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// Used to generate the sample configuration file and by tests.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Adapters: AdaptersConfig{
			HTTP: httpAdapter.HTTPConfig{Enabled: true},
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
