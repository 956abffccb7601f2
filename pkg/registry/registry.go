// Package registry answers whether a generation capability is currently
// usable. A capability is available when its configured credential
// resolves in the secret store to a non-blank value.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/provider"
	"github.com/rhuss/brandsmith/pkg/secrets"
)

// DefaultSecretName is the credential used when no mapping is configured.
const DefaultSecretName = "GENERATION_API_KEY"

// Availability reports which capabilities are usable.
type Availability struct {
	PerCapability map[provider.Kind]bool   `json:"capabilities"`
	AnyAvailable  bool                     `json:"any_available"`
	Diagnostics   map[provider.Kind]string `json:"diagnostics,omitempty"`
}

// Available reports whether kind is usable.
func (a Availability) Available(kind provider.Kind) bool {
	return a.PerCapability[kind]
}

// Registry maps capabilities to credential names and checks them against
// the secret store. It holds no mutable state and is safe for concurrent use.
type Registry struct {
	store       secrets.Store
	credentials map[provider.Kind]string
}

// Ensure Registry can act as a provider key source.
var _ provider.KeySource = (*Registry)(nil)

// New creates a registry. credentials maps each capability to the secret
// name holding its key; unmapped capabilities use DefaultSecretName.
func New(store secrets.Store, credentials map[provider.Kind]string) *Registry {
	creds := make(map[provider.Kind]string, len(provider.Kinds))
	for _, kind := range provider.Kinds {
		name := strings.TrimSpace(credentials[kind])
		if name == "" {
			name = DefaultSecretName
		}
		creds[kind] = name
	}
	return &Registry{store: store, credentials: creds}
}

// SecretName returns the secret name backing the capability.
func (r *Registry) SecretName(kind provider.Kind) string {
	if name, ok := r.credentials[kind]; ok {
		return name
	}
	return DefaultSecretName
}

// CheckAvailability reports the usability of every capability. It never
// returns an error: a store failure marks every capability unavailable and
// is recorded as a diagnostic.
func (r *Registry) CheckAvailability(ctx context.Context) Availability {
	avail := Availability{
		PerCapability: make(map[provider.Kind]bool, len(provider.Kinds)),
		Diagnostics:   make(map[provider.Kind]string),
	}

	// Several capabilities may share one secret; look each name up once.
	values := make(map[string]string)
	for _, kind := range provider.Kinds {
		name := r.SecretName(kind)
		if _, seen := values[name]; seen {
			continue
		}
		value, err := r.store.Get(ctx, name)
		switch {
		case err == nil:
			values[name] = value
		case errors.Is(err, secrets.ErrNotFound):
			values[name] = ""
		default:
			slog.Warn("secret lookup failed, treating all capabilities as unavailable",
				"secret", name, "error", err.Error())
			for _, k := range provider.Kinds {
				avail.PerCapability[k] = false
				avail.Diagnostics[k] = fmt.Sprintf("secret store lookup failed: %s", err.Error())
			}
			return avail
		}
	}

	for _, kind := range provider.Kinds {
		name := r.SecretName(kind)
		ok := strings.TrimSpace(values[name]) != ""
		avail.PerCapability[kind] = ok
		if ok {
			avail.AnyAvailable = true
		} else {
			avail.Diagnostics[kind] = fmt.Sprintf("secret %s is not set", name)
		}
	}

	debug.Log("secrets", "availability checked",
		"text", avail.PerCapability[provider.KindText],
		"image", avail.PerCapability[provider.KindImage])

	return avail
}

// Credential returns the trimmed credential for kind, or a not_configured
// error when it is missing, blank or cannot be read.
func (r *Registry) Credential(ctx context.Context, kind provider.Kind) (string, error) {
	name := r.SecretName(kind)
	value, err := r.store.Get(ctx, name)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		slog.Warn("secret lookup failed", "secret", name, "error", err.Error())
	}
	value = strings.TrimSpace(value)
	if err != nil || value == "" {
		return "", api.NewNotConfiguredError(string(kind), name)
	}
	return value, nil
}
