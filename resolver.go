// Package avatars resolves user avatar URLs from administrator-configured
// URL templates.
//
// The Resolver type is the main entry point: create one with New, load the
// configured providers with LoadProviders (or register your own with
// RegisterProvider), then call AvatarURL and ChangeAvatarURL.
//
// Providers and the selection strategy (single or fallback) are configured
// via [Config], which can be loaded from a YAML or JSON file using
// [LoadConfig].
package avatars

import (
	"context"
	"fmt"
	"sync"

	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/internal/metrics"
	"github.com/ferro-labs/avatars-external/internal/strategies"
	"github.com/ferro-labs/avatars-external/providers"
)

// Resolver answers avatar lookups by asking its providers according to the
// configured strategy. It never returns errors for lookups: a false result
// means the caller should fall back to a default avatar.
type Resolver struct {
	mu       sync.RWMutex
	config   Config
	registry *providers.Registry
	order    []string
	strategy strategies.Strategy
}

// New creates a new Resolver with the given configuration. Providers are not
// built until LoadProviders is called.
func New(cfg Config) (*Resolver, error) {
	switch cfg.Strategy.Mode {
	case "", ModeSingle, ModeFallback:
	default:
		return nil, fmt.Errorf("unknown strategy mode: %q", cfg.Strategy.Mode)
	}
	return &Resolver{
		config:   cfg,
		registry: providers.NewRegistry(),
	}, nil
}

// RegisterProvider registers a provider. Providers are consulted in
// registration order; registering a name again replaces the provider in
// place.
func (r *Resolver) RegisterProvider(p providers.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.registry.Get(p.Name()); !exists {
		r.order = append(r.order, p.Name())
	}
	r.registry.Register(p)
	r.strategy = nil // force strategy rebuild
}

// LoadProviders builds every enabled provider in the configuration through
// the provider factory registry.
func (r *Resolver) LoadProviders() error {
	for _, pc := range r.config.Providers {
		if !pc.Enabled {
			continue
		}
		factory, ok := providers.GetFactory(pc.Type)
		if !ok {
			return fmt.Errorf("provider %s: unknown type %q", pc.Name, pc.Type)
		}
		p, err := factory(providers.Options{
			Name:            pc.Name,
			CanonicalWebURL: r.config.CanonicalWebURL,
			Settings:        pc.Config,
		})
		if err != nil {
			return fmt.Errorf("provider %s init failed: %w", pc.Name, err)
		}
		r.RegisterProvider(p)
		logging.Logger.Info("avatar provider loaded", "name", pc.Name, "type", pc.Type)
	}
	return nil
}

// Providers returns the names of the registered providers in lookup order.
func (r *Resolver) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Provider returns the registered provider with the given name.
func (r *Resolver) Provider(name string) (providers.Provider, bool) {
	return r.registry.Get(name)
}

// Config returns the resolver configuration.
func (r *Resolver) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// DefaultAvatarURL returns the configured fallback avatar, if any.
func (r *Resolver) DefaultAvatarURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.DefaultAvatarURL
}

// AvatarURL returns the avatar image URL for user. imageSize is the requested
// size in pixels, 0 for none; negative sizes are treated as 0.
func (r *Resolver) AvatarURL(ctx context.Context, user providers.User, imageSize int) (string, bool) {
	if imageSize < 0 {
		imageSize = 0
	}
	res, ok := r.getStrategy().AvatarURL(ctx, user, imageSize)
	r.record(ctx, metrics.KindAvatar, user, res, ok)
	return res.URL, ok
}

// ChangeAvatarURL returns the URL of the page where user changes their
// avatar.
func (r *Resolver) ChangeAvatarURL(ctx context.Context, user providers.User) (string, bool) {
	res, ok := r.getStrategy().ChangeURL(ctx, user)
	r.record(ctx, metrics.KindChange, user, res, ok)
	return res.URL, ok
}

func (r *Resolver) record(ctx context.Context, kind string, user providers.User, res strategies.Result, ok bool) {
	outcome := metrics.OutcomeAbsent
	if ok {
		outcome = metrics.OutcomeResolved
	}
	metrics.Resolutions.WithLabelValues(res.Provider, kind, outcome).Inc()
	logging.FromContext(ctx).Debug("avatar lookup",
		"kind", kind,
		"account_id", user.AccountID,
		"provider", res.Provider,
		"outcome", outcome,
	)
}

func (r *Resolver) getStrategy() strategies.Strategy {
	r.mu.RLock()
	s := r.strategy
	r.mu.RUnlock()
	if s != nil {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.strategy != nil {
		return r.strategy
	}

	lookup := r.registry.Get
	names := append([]string(nil), r.order...)

	switch r.config.Strategy.Mode {
	case ModeFallback:
		r.strategy = strategies.NewFallback(names, lookup)
	default:
		first := ""
		if len(names) > 0 {
			first = names[0]
		}
		r.strategy = strategies.NewSingle(first, lookup)
	}
	return r.strategy
}
