package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_DefaultConfig(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "info"

content:
  type: "filesystem"

adapters:
  http:
    enabled: true
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected normalized level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Adapters.HTTP.Port != DefaultHTTPPort {
		t.Errorf("Expected default HTTP port %d, got %d", DefaultHTTPPort, cfg.Adapters.HTTP.Port)
	}
	if cfg.Adapters.HTTP.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Adapters.HTTP.Workers)
	}
	if cfg.Adapters.HTTP.SleepDelay != 5*time.Second {
		t.Errorf("Expected 5s sleep delay, got %v", cfg.Adapters.HTTP.SleepDelay)
	}
	if cfg.Adapters.HTTP.Pages.Missing != "non-existent file.html" {
		t.Errorf("Unexpected missing page name %q", cfg.Adapters.HTTP.Pages.Missing)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Point at a non-existent file so the user's own config is never read.
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}

	if cfg.Content.Type != "filesystem" {
		t.Errorf("Expected default content type 'filesystem', got %q", cfg.Content.Type)
	}
	if cfg.Content.Filesystem["path"] != DefaultPagesPath {
		t.Errorf("Expected default pages path, got %v", cfg.Content.Filesystem["path"])
	}
	if !cfg.Adapters.HTTP.Enabled {
		t.Error("Expected HTTP adapter enabled by default")
	}
	if cfg.Server.Metrics.Enabled {
		t.Error("Expected metrics disabled by default")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: INFO
  invalid yaml here [[[
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestLoad_Durations(t *testing.T) {
	configPath := writeConfig(t, `
adapters:
  http:
    port: 8080
    sleep_delay: 250ms
    read_timeout: 2s
    max_accept_rate: 50
    accept_burst: 10
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	http := cfg.Adapters.HTTP
	if !http.Enabled {
		t.Error("Expected adapter enabled when only a port is set")
	}
	if http.SleepDelay != 250*time.Millisecond || http.ReadTimeout != 2*time.Second {
		t.Errorf("Durations not decoded: sleep=%v read=%v", http.SleepDelay, http.ReadTimeout)
	}
	if http.MaxAcceptRate != 50 || http.AcceptBurst != 10 {
		t.Errorf("Accept limit not decoded: rate=%v burst=%d", http.MaxAcceptRate, http.AcceptBurst)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	configPath := writeConfig(t, `
adapters:
  http:
    port: 8080
`)

	t.Setenv("MINIHTTPD_ADAPTERS_HTTP_PORT", "9999")
	t.Setenv("MINIHTTPD_LOGGING_LEVEL", "debug")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Adapters.HTTP.Port != 9999 {
		t.Errorf("Expected env port 9999, got %d", cfg.Adapters.HTTP.Port)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected env level DEBUG, got %q", cfg.Logging.Level)
	}
}

func TestLoad_MemoryContent(t *testing.T) {
	configPath := writeConfig(t, `
content:
  type: memory
  memory:
    files:
      index.html: "<h1>hi</h1>"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Content.Type != "memory" {
		t.Fatalf("Expected memory content type, got %q", cfg.Content.Type)
	}
	if _, ok := cfg.Content.Memory["files"]; !ok {
		t.Error("Expected memory files section to be preserved")
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "minihttpd", "config.yaml")
	if got := GetDefaultConfigPath(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if ConfigExists() {
		t.Error("Expected no config in a fresh directory")
	}
}
