// Command server runs the brandsmith asset generation gateway.
//
// Configuration is read from an optional .env file, a YAML config file and
// BRANDSMITH_* environment variables (see pkg/config). Common settings:
//
//	BRANDSMITH_CONFIG        - Path to the YAML config file
//	BRANDSMITH_PORT          - Listen port (default: 8080)
//	BRANDSMITH_BASE_URL      - OpenAI-compatible backend URL (default: SDK default)
//	BRANDSMITH_SECRETS       - Secret store: "memory", "postgres" or "redis" (default: "memory")
//	GENERATION_API_KEY       - Credential seeded into the secret store
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rhuss/brandsmith/pkg/config"
	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/engine"
	"github.com/rhuss/brandsmith/pkg/provider"
	"github.com/rhuss/brandsmith/pkg/provider/openai"
	"github.com/rhuss/brandsmith/pkg/registry"
	"github.com/rhuss/brandsmith/pkg/secrets"
	"github.com/rhuss/brandsmith/pkg/secrets/memory"
	"github.com/rhuss/brandsmith/pkg/secrets/postgres"
	"github.com/rhuss/brandsmith/pkg/secrets/redis"
	transporthttp "github.com/rhuss/brandsmith/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before configuration")
	flag.Parse()

	// Existing environment variables win over the dotenv file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if unknown := debug.Init(cfg.Debug.Categories, cfg.Debug.Level); len(unknown) > 0 {
		slog.Warn("unknown debug categories", "categories", unknown, "known", debug.Known)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newSecretStore(ctx, cfg.Secrets)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := secrets.Seed(ctx, store, cfg.Secrets.Seed); err != nil {
		return fmt.Errorf("seeding secrets: %w", err)
	}

	reg := registry.New(store, credentialMap(cfg.Provider.Credentials))

	prov, err := openai.New(openai.Config{
		BaseURL:    cfg.Provider.BaseURL,
		Keys:       reg,
		TextModel:  cfg.Provider.TextModel,
		ImageModel: cfg.Provider.ImageModel,
		ImageSize:  cfg.Provider.ImageSize,
		Timeout:    cfg.Provider.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	policy, err := engine.ParseFailurePolicy(cfg.Engine.FailurePolicy)
	if err != nil {
		return err
	}
	eng, err := engine.New(prov, reg, engine.Config{
		MaxRetries:          cfg.Engine.MaxRetries,
		MaxRetriesLimit:     cfg.Engine.MaxRetriesLimit,
		FailurePolicy:       policy,
		DisableQualityCheck: !cfg.Engine.QualityCheck,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	avail := eng.Capabilities(ctx)
	for kind, diag := range avail.Diagnostics {
		slog.Warn("capability not configured", "capability", kind, "detail", diag)
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(":" + strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithRequestTimeout(cfg.Engine.RequestTimeout),
		transporthttp.WithHealthCheck(store.HealthCheck),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
	}
	if cfg.Secrets.AllowUpdates {
		opts = append(opts, transporthttp.WithSecretUpdates(store))
	}
	srv := transporthttp.NewServer(eng, opts...)

	slog.Info("server starting",
		"port", cfg.Server.Port,
		"backend", cfg.Provider.BaseURL,
		"text_model", cfg.Provider.TextModel,
		"image_model", cfg.Provider.ImageModel,
		"secrets", cfg.Secrets.Type,
		"text_available", avail.Available(provider.KindText),
		"image_available", avail.Available(provider.KindImage))

	if err := srv.ListenAndServeContext(ctx); err != nil {
		return err
	}
	return nil
}

// newSecretStore builds the configured secret store.
func newSecretStore(ctx context.Context, cfg config.SecretsConfig) (secrets.Store, error) {
	switch cfg.Type {
	case "postgres":
		s, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("creating postgres secret store: %w", err)
		}
		slog.Info("secret store enabled", "type", "postgres")
		return s, nil
	case "redis":
		s, err := redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("creating redis secret store: %w", err)
		}
		slog.Info("secret store enabled", "type", "redis", "addr", cfg.Redis.Addr)
		return s, nil
	default:
		slog.Info("secret store enabled", "type", "memory")
		return memory.New(), nil
	}
}

func credentialMap(in map[string]string) map[provider.Kind]string {
	out := make(map[provider.Kind]string, len(in))
	for kind, name := range in {
		out[provider.Kind(kind)] = name
	}
	return out
}
