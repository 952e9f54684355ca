package strategies

import (
	"context"

	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/providers"
)

// Single routes every lookup to one provider.
type Single struct {
	name   string
	lookup ProviderLookup
}

// NewSingle creates a new single-provider strategy.
func NewSingle(name string, lookup ProviderLookup) *Single {
	return &Single{name: name, lookup: lookup}
}

func (s *Single) provider(ctx context.Context) (providers.Provider, bool) {
	p, ok := s.lookup(s.name)
	if !ok {
		logging.FromContext(ctx).Warn("provider not found", "provider", s.name)
	}
	return p, ok
}

// AvatarURL asks the configured provider for the avatar URL.
func (s *Single) AvatarURL(ctx context.Context, user providers.User, imageSize int) (Result, bool) {
	p, ok := s.provider(ctx)
	if !ok {
		return Result{}, false
	}
	u, ok := p.URL(user, imageSize)
	return Result{URL: u, Provider: p.Name()}, ok
}

// ChangeURL asks the configured provider for the change-avatar URL.
func (s *Single) ChangeURL(ctx context.Context, user providers.User) (Result, bool) {
	p, ok := s.provider(ctx)
	if !ok {
		return Result{}, false
	}
	u, ok := p.ChangeURL(user)
	return Result{URL: u, Provider: p.Name()}, ok
}
