package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// Sentinel errors for secret store operations.
var (
	// ErrNotFound is returned when a secret does not exist.
	ErrNotFound = errors.New("secret not found")

	// ErrInvalidName is returned when a secret name is malformed.
	ErrInvalidName = errors.New("invalid secret name")
)

// Store is a simple get/set secret store.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Get returns the value stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) (string, error)

	// Set stores value under name, replacing any previous value.
	Set(ctx context.Context, name, value string) error

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,127}$`)

// ValidateName checks that name is usable as a secret name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Seed writes the given secrets into the store. Blank values are skipped so
// an unset environment variable does not overwrite a stored secret.
func Seed(ctx context.Context, store Store, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := strings.TrimSpace(values[name])
		if value == "" {
			continue
		}
		if err := ValidateName(name); err != nil {
			return err
		}
		if err := store.Set(ctx, name, value); err != nil {
			return fmt.Errorf("seeding secret %s: %w", name, err)
		}
		slog.Info("seeded secret", "name", name)
	}
	return nil
}
