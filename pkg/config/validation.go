package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Log level normalization is handled in ApplyDefaults, not here. Validation
// accepts both uppercase and lowercase log levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	if !cfg.Adapters.HTTP.Enabled {
		return fmt.Errorf("adapters: at least one adapter must be enabled")
	}

	http := cfg.Adapters.HTTP
	if http.Workers < 1 {
		return fmt.Errorf("adapters.http.workers: must be at least 1, got %d", http.Workers)
	}
	if http.ReadBufferSize < 1 {
		return fmt.Errorf("adapters.http.read_buffer_size: must be at least 1, got %d", http.ReadBufferSize)
	}

	if cfg.Server.Metrics.Enabled && cfg.Server.Metrics.Port != 0 &&
		cfg.Server.Metrics.Port == http.Port {
		return fmt.Errorf("server.metrics.port: %d conflicts with adapters.http.port", cfg.Server.Metrics.Port)
	}

	if cfg.Content.Type == "s3" {
		if bucket, _ := cfg.Content.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("content.s3.bucket: required when content.type is s3")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
