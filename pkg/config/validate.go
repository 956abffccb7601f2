package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/secrets"
)

// Validate checks the configuration for required fields and valid values.
// All problems are reported together, each with a descriptive field path.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	// engine.max_retries: use engine.quality_check=false to turn
	// regeneration off entirely.
	if c.Engine.MaxRetriesLimit < 1 {
		errs = append(errs, fmt.Errorf("engine.max_retries_limit must be >= 1, got %d", c.Engine.MaxRetriesLimit))
	}
	if c.Engine.MaxRetries < 1 || c.Engine.MaxRetries > c.Engine.MaxRetriesLimit {
		errs = append(errs, fmt.Errorf("engine.max_retries must be between 1 and engine.max_retries_limit (%d), got %d",
			c.Engine.MaxRetriesLimit, c.Engine.MaxRetries))
	}
	switch strings.ToLower(c.Engine.FailurePolicy) {
	case "abort", "retry", "":
		// valid
	default:
		errs = append(errs, fmt.Errorf("engine.failure_policy must be \"abort\" or \"retry\", got %q", c.Engine.FailurePolicy))
	}
	if c.Engine.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("engine.request_timeout must not be negative"))
	}

	if c.Provider.Type != "openai" {
		errs = append(errs, fmt.Errorf("provider.type must be \"openai\", got %q", c.Provider.Type))
	}
	if c.Provider.ImageSize != "" {
		if apiErr := api.ValidateSize(c.Provider.ImageSize); apiErr != nil {
			errs = append(errs, fmt.Errorf("provider.image_size: %s", apiErr.Message))
		}
	}
	for kind, name := range c.Provider.Credentials {
		if kind != "text" && kind != "image" {
			errs = append(errs, fmt.Errorf("provider.credentials: unknown capability %q (expected text or image)", kind))
		}
		if err := secrets.ValidateName(name); err != nil {
			errs = append(errs, fmt.Errorf("provider.credentials[%s]: %w", kind, err))
		}
	}

	switch c.Secrets.Type {
	case "memory":
		// valid
	case "postgres":
		if c.Secrets.Postgres.DSN == "" && c.Secrets.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("secrets.postgres.dsn or secrets.postgres.dsn_file is required when secrets.type is \"postgres\""))
		}
	case "redis":
		if c.Secrets.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("secrets.redis.addr is required when secrets.type is \"redis\""))
		}
	default:
		errs = append(errs, fmt.Errorf("secrets.type must be \"memory\", \"postgres\" or \"redis\", got %q", c.Secrets.Type))
	}
	for name := range c.Secrets.Seed {
		if err := secrets.ValidateName(name); err != nil {
			errs = append(errs, fmt.Errorf("secrets.seed[%s]: %w", name, err))
		}
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	return errors.Join(errs...)
}
