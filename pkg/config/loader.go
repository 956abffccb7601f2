package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, BRANDSMITH_CONFIG env, ./config.yaml, /etc/brandsmith/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. BRANDSMITH_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/brandsmith/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("BRANDSMITH_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/brandsmith/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps BRANDSMITH_* environment variables to config
// fields. Malformed numeric, boolean and duration values are errors.
// Credentials named by provider.credentials are also seeded from
// environment variables of the same name (e.g. GENERATION_API_KEY from a
// .env file) unless the seed already sets them.
func applyEnvOverrides(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	str("BRANDSMITH_PROVIDER", &cfg.Provider.Type)
	str("BRANDSMITH_BASE_URL", &cfg.Provider.BaseURL)
	str("BRANDSMITH_TEXT_MODEL", &cfg.Provider.TextModel)
	str("BRANDSMITH_IMAGE_MODEL", &cfg.Provider.ImageModel)
	str("BRANDSMITH_IMAGE_SIZE", &cfg.Provider.ImageSize)
	str("BRANDSMITH_FAILURE_POLICY", &cfg.Engine.FailurePolicy)
	str("BRANDSMITH_SECRETS", &cfg.Secrets.Type)
	str("BRANDSMITH_POSTGRES_DSN", &cfg.Secrets.Postgres.DSN)
	str("BRANDSMITH_REDIS_ADDR", &cfg.Secrets.Redis.Addr)
	str("BRANDSMITH_REDIS_PASSWORD", &cfg.Secrets.Redis.Password)

	ints := []struct {
		key string
		dst *int
	}{
		{"BRANDSMITH_PORT", &cfg.Server.Port},
		{"BRANDSMITH_MAX_RETRIES", &cfg.Engine.MaxRetries},
		{"BRANDSMITH_MAX_RETRIES_LIMIT", &cfg.Engine.MaxRetriesLimit},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"BRANDSMITH_QUALITY_CHECK", &cfg.Engine.QualityCheck},
		{"BRANDSMITH_SECRETS_ALLOW_UPDATES", &cfg.Secrets.AllowUpdates},
		{"BRANDSMITH_METRICS_ENABLED", &cfg.Observability.Metrics.Enabled},
	}
	for _, e := range bools {
		if v := os.Getenv(e.key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = b
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"BRANDSMITH_REQUEST_TIMEOUT", &cfg.Engine.RequestTimeout},
		{"BRANDSMITH_PROVIDER_TIMEOUT", &cfg.Provider.Timeout},
	}
	for _, e := range durations {
		if v := os.Getenv(e.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = d
		}
	}

	// BRANDSMITH_SECRETS_SEED: JSON object of secret name to value.
	if v := os.Getenv("BRANDSMITH_SECRETS_SEED"); v != "" {
		seed, err := parseSeedJSON(v)
		if err != nil {
			return err
		}
		for name, value := range seed {
			cfg.setSeed(name, value)
		}
	}

	for _, name := range cfg.CredentialNames() {
		if v := os.Getenv(name); v != "" {
			if _, set := cfg.Secrets.Seed[name]; !set {
				cfg.setSeed(name, v)
			}
		}
	}

	return nil
}

func (c *Config) setSeed(name, value string) {
	if c.Secrets.Seed == nil {
		c.Secrets.Seed = make(map[string]string)
	}
	c.Secrets.Seed[name] = value
}

// parseSeedJSON parses a JSON object of secret seeds.
func parseSeedJSON(jsonStr string) (map[string]string, error) {
	var seed map[string]string
	if err := json.Unmarshal([]byte(jsonStr), &seed); err != nil {
		return nil, fmt.Errorf("parsing BRANDSMITH_SECRETS_SEED JSON: %w", err)
	}
	return seed, nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// secrets.postgres.dsn_file -> secrets.postgres.dsn
	if cfg.Secrets.Postgres.DSNFile != "" && cfg.Secrets.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Secrets.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("secrets.postgres.dsn_file: %w", err)
		}
		cfg.Secrets.Postgres.DSN = val
	}

	// secrets.redis.password_file -> secrets.redis.password
	if cfg.Secrets.Redis.PasswordFile != "" && cfg.Secrets.Redis.Password == "" {
		val, err := readSecretFile(cfg.Secrets.Redis.PasswordFile)
		if err != nil {
			return fmt.Errorf("secrets.redis.password_file: %w", err)
		}
		cfg.Secrets.Redis.Password = val
	}

	// secrets.seed_file[name] -> secrets.seed[name]
	for name, path := range cfg.Secrets.SeedFile {
		if strings.TrimSpace(cfg.Secrets.Seed[name]) != "" {
			continue
		}
		val, err := readSecretFile(path)
		if err != nil {
			return fmt.Errorf("secrets.seed_file[%s]: %w", name, err)
		}
		cfg.setSeed(name, val)
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
