package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# minihttpd Configuration File
#
# Every key can be overridden with an environment variable:
#   MINIHTTPD_<SECTION>_<KEY>, e.g. MINIHTTPD_ADAPTERS_HTTP_PORT=8080
#
# content.type selects where static pages come from:
#   filesystem: content.filesystem.path
#   memory:     content.memory.files (name: body)
#   s3:         content.s3.{region,bucket,key_prefix,endpoint,access_key_id,secret_access_key}

`

// InitConfig writes a sample configuration with all defaults to the default
// config path and returns that path. An existing file is only replaced when
// force is set.
func InitConfig(force bool) (string, error) {
	return InitConfigAt(GetDefaultConfigPath(), force)
}

// InitConfigAt is InitConfig for an explicit path.
func InitConfigAt(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	data, err := GenerateSampleConfig()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

// GenerateSampleConfig renders the default configuration as commented YAML.
func GenerateSampleConfig() ([]byte, error) {
	cfg := GetDefaultConfig()

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config: %w", err)
	}

	return append([]byte(configHeader), body...), nil
}
