package http

import (
	"fmt"
	"time"
)

// HTTPConfig holds configuration parameters for the HTTP adapter.
//
// Default values (applied by New if zero):
//   - BindAddress: 127.0.0.1
//   - Port: 7878
//   - Workers: 4
//   - ReadBufferSize: 1024
//   - SleepDelay: 5s
//   - ShutdownTimeout: 30s
//   - Pages: index.html, 404.html, 500.html, "non-existent file.html"
//
// ReadTimeout and WriteTimeout default to 0 (none): a connection that never
// sends anything holds its worker until the peer goes away.
type HTTPConfig struct {
	// Enabled controls whether the HTTP adapter is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// BindAddress is the interface to listen on.
	BindAddress string `mapstructure:"bind_address" yaml:"bind_address" validate:"omitempty,ip|hostname"`

	// Port is the TCP port to listen on. 0 asks the OS for a free port once
	// defaults have been applied by the config layer.
	Port int `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`

	// Workers is the fixed number of connection workers.
	Workers int `mapstructure:"workers" yaml:"workers" validate:"min=0,max=1024"`

	// ReadBufferSize is the size of the single read performed per
	// connection. Requests longer than this are truncated.
	ReadBufferSize int `mapstructure:"read_buffer_size" yaml:"read_buffer_size" validate:"min=0,max=1048576"`

	// SleepDelay is how long GET /sleep blocks its worker.
	SleepDelay time.Duration `mapstructure:"sleep_delay" yaml:"sleep_delay" validate:"min=0"`

	// ReadTimeout bounds the request read. 0 means no timeout.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"min=0"`

	// WriteTimeout bounds the response write. 0 means no timeout.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"min=0"`

	// ShutdownTimeout is the maximum duration to wait for in-flight
	// connections during graceful shutdown. After this timeout, remaining
	// connections are forcibly closed.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=0"`

	// MaxAcceptRate limits accepted connections per second. 0 is unlimited.
	MaxAcceptRate float64 `mapstructure:"max_accept_rate" yaml:"max_accept_rate" validate:"min=0"`

	// AcceptBurst is the accept limiter's bucket size.
	AcceptBurst int `mapstructure:"accept_burst" yaml:"accept_burst" validate:"min=0"`

	// MetricsLogInterval is the interval at which pool and connection
	// counters are logged. 0 disables periodic logging.
	MetricsLogInterval time.Duration `mapstructure:"metrics_log_interval" yaml:"metrics_log_interval" validate:"min=0"`

	// Pages names the static pages served by the fixed routes.
	Pages PagesConfig `mapstructure:"pages" yaml:"pages"`
}

// PagesConfig maps fixed routes to content store names.
type PagesConfig struct {
	// Index is served by GET / and GET /sleep.
	Index string `mapstructure:"index" yaml:"index"`

	// NotFound is served with 404 for unmatched routes.
	NotFound string `mapstructure:"not_found" yaml:"not_found"`

	// ServerError is served with 500 when another page cannot be read.
	ServerError string `mapstructure:"server_error" yaml:"server_error"`

	// Missing is what GET /error asks for. It is expected not to exist.
	Missing string `mapstructure:"missing" yaml:"missing"`
}

// applyDefaults fills in zero values with sensible defaults.
func (c *HTTPConfig) applyDefaults() {
	// Note: Enabled and Port defaults are handled in pkg/config/defaults.go
	// so tests can bind port 0.

	if c.BindAddress == "" {
		c.BindAddress = "127.0.0.1"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 1024
	}
	if c.SleepDelay == 0 {
		c.SleepDelay = 5 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.Pages.Index == "" {
		c.Pages.Index = "index.html"
	}
	if c.Pages.NotFound == "" {
		c.Pages.NotFound = "404.html"
	}
	if c.Pages.ServerError == "" {
		c.Pages.ServerError = "500.html"
	}
	if c.Pages.Missing == "" {
		c.Pages.Missing = "non-existent file.html"
	}
}

// validate checks that the configuration is usable.
func (c *HTTPConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 0-65535", c.Port)
	}
	if c.Workers < 1 || c.Workers > 1024 {
		return fmt.Errorf("invalid Workers %d: must be 1-1024", c.Workers)
	}
	if c.ReadBufferSize < 1 {
		return fmt.Errorf("invalid ReadBufferSize %d: must be > 0", c.ReadBufferSize)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("invalid timeouts read=%v write=%v: must be >= 0", c.ReadTimeout, c.WriteTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid ShutdownTimeout %v: must be > 0", c.ShutdownTimeout)
	}
	if c.MaxAcceptRate < 0 || c.AcceptBurst < 0 {
		return fmt.Errorf("invalid accept limit rate=%v burst=%d: must be >= 0", c.MaxAcceptRate, c.AcceptBurst)
	}
	return nil
}
