package strategies

import (
	"context"

	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/providers"
)

// Fallback asks each provider in order, moving to the next when one yields
// no URL.
type Fallback struct {
	names  []string
	lookup ProviderLookup
}

// NewFallback creates a new fallback strategy.
func NewFallback(names []string, lookup ProviderLookup) *Fallback {
	return &Fallback{names: names, lookup: lookup}
}

func (f *Fallback) first(ctx context.Context, resolve func(providers.Provider) (string, bool)) (Result, bool) {
	for _, name := range f.names {
		p, ok := f.lookup(name)
		if !ok {
			logging.FromContext(ctx).Warn("provider not found, skipping", "provider", name)
			continue
		}
		if u, ok := resolve(p); ok {
			return Result{URL: u, Provider: p.Name()}, true
		}
		logging.FromContext(ctx).Debug("provider yielded no URL, trying next", "provider", name)
	}
	return Result{}, false
}

// AvatarURL returns the first avatar URL any provider yields.
func (f *Fallback) AvatarURL(ctx context.Context, user providers.User, imageSize int) (Result, bool) {
	return f.first(ctx, func(p providers.Provider) (string, bool) {
		return p.URL(user, imageSize)
	})
}

// ChangeURL returns the first change-avatar URL any provider yields.
func (f *Fallback) ChangeURL(ctx context.Context, user providers.User) (Result, bool) {
	return f.first(ctx, func(p providers.Provider) (string, bool) {
		return p.ChangeURL(user)
	})
}
