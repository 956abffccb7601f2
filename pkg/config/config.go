// Package config provides unified configuration for the brandsmith gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (BRANDSMITH_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the brandsmith gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Engine        EngineConfig        `yaml:"engine"`
	Provider      ProviderConfig      `yaml:"provider"`
	Secrets       SecretsConfig       `yaml:"secrets"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds category debug logging settings. BRANDSMITH_DEBUG and
// BRANDSMITH_LOG_LEVEL take precedence.
type DebugConfig struct {
	Categories string `yaml:"categories"` // e.g. "engine,providers" or "all"
	Level      string `yaml:"level"`      // TRACE, DEBUG, INFO, WARN, ERROR
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 180s
	MaxBodySize  int64         `yaml:"max_body_size"` // default: 1 MiB
}

// EngineConfig holds orchestrator settings.
type EngineConfig struct {
	MaxRetries      int           `yaml:"max_retries"`       // default: 2
	MaxRetriesLimit int           `yaml:"max_retries_limit"` // default: 5
	FailurePolicy   string        `yaml:"failure_policy"`    // "abort" or "retry", default: "abort"
	RequestTimeout  time.Duration `yaml:"request_timeout"`   // default: 120s
	QualityCheck    bool          `yaml:"quality_check"`     // default: true
}

// ProviderConfig holds generation backend settings.
type ProviderConfig struct {
	Type       string        `yaml:"type"`     // "openai", default: "openai"
	BaseURL    string        `yaml:"base_url"` // empty uses the SDK default
	TextModel  string        `yaml:"text_model"`
	ImageModel string        `yaml:"image_model"`
	ImageSize  string        `yaml:"image_size"`
	Timeout    time.Duration `yaml:"timeout"` // default: 60s

	// Credentials maps a capability ("text", "image") to the secret name
	// holding its API key. Unmapped capabilities use GENERATION_API_KEY.
	Credentials map[string]string `yaml:"credentials"`
}

// SecretsConfig holds secret store settings.
type SecretsConfig struct {
	Type string `yaml:"type"` // "memory", "postgres" or "redis", default: "memory"

	// Seed values are written to the store at startup.
	Seed map[string]string `yaml:"seed"`

	// SeedFile maps secret names to files holding their values.
	SeedFile map[string]string `yaml:"seed_file"`

	// AllowUpdates enables PUT /v1/secrets/{name}.
	AllowUpdates bool `yaml:"allow_updates"`

	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 5
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr         string `yaml:"addr"` // default: "localhost:6379"
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"password_file"` // _file variant for password
	DB           int    `yaml:"db"`
	Prefix       string `yaml:"prefix"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 180 * time.Second,
			MaxBodySize:  1 << 20,
		},
		Engine: EngineConfig{
			MaxRetries:      2,
			MaxRetriesLimit: 5,
			FailurePolicy:   "abort",
			RequestTimeout:  120 * time.Second,
			QualityCheck:    true,
		},
		Provider: ProviderConfig{
			Type:       "openai",
			TextModel:  "gpt-4o-mini",
			ImageModel: "dall-e-3",
			ImageSize:  "1024x1024",
			Timeout:    60 * time.Second,
		},
		Secrets: SecretsConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 5,
			},
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}

// CredentialNames returns the distinct secret names referenced by the
// provider credentials, including the default name for unmapped kinds.
func (c *Config) CredentialNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, kind := range []string{"text", "image"} {
		name := c.Provider.Credentials[kind]
		if name == "" {
			name = DefaultCredentialName
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// DefaultCredentialName is the secret used by capabilities without an
// explicit credentials mapping.
const DefaultCredentialName = "GENERATION_API_KEY"
