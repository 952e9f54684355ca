// Package strategies implements how the resolver picks the provider that
// answers an avatar lookup.
//
// Available strategies:
//   - Single:   always asks one configured provider.
//   - Fallback: asks providers in order until one yields a URL.
package strategies

import (
	"context"

	"github.com/ferro-labs/avatars-external/providers"
)

// Result is a resolved URL and the provider that produced it.
type Result struct {
	URL      string
	Provider string
}

// Strategy selects providers for avatar lookups. A false return means no
// provider produced a URL.
type Strategy interface {
	AvatarURL(ctx context.Context, user providers.User, imageSize int) (Result, bool)
	ChangeURL(ctx context.Context, user providers.User) (Result, bool)
}

// ProviderLookup resolves a provider name to a Provider instance.
type ProviderLookup func(name string) (providers.Provider, bool)
