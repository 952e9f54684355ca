package accounts

import (
	"context"
	"errors"
	"strconv"

	"github.com/ferro-labs/avatars-external/internal/cache"
	"github.com/ferro-labs/avatars-external/internal/metrics"
	"github.com/ferro-labs/avatars-external/providers"
)

// Cached fronts a Directory with a cache. Lookups by id and by username
// share entries; writes through Cached invalidate them.
type Cached struct {
	next  Directory
	cache cache.Cache
}

// NewCached wraps next with c.
func NewCached(next Directory, c cache.Cache) *Cached {
	return &Cached{next: next, cache: c}
}

func idKey(id int) string            { return "id:" + strconv.Itoa(id) }
func usernameKey(name string) string { return "user:" + name }

// ByID returns the account with the given id.
func (c *Cached) ByID(ctx context.Context, id int) (providers.User, error) {
	return c.lookup(idKey(id), func() (providers.User, error) {
		return c.next.ByID(ctx, id)
	})
}

// ByUsername returns the account with the given username.
func (c *Cached) ByUsername(ctx context.Context, username string) (providers.User, error) {
	return c.lookup(usernameKey(username), func() (providers.User, error) {
		return c.next.ByUsername(ctx, username)
	})
}

func (c *Cached) lookup(key string, load func() (providers.User, error)) (providers.User, error) {
	if u, ok := c.cache.Get(key); ok {
		metrics.AccountLookups.WithLabelValues(metrics.LookupHit).Inc()
		return u, nil
	}
	u, err := load()
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.AccountLookups.WithLabelValues(metrics.LookupNotFound).Inc()
		return u, err
	case err != nil:
		metrics.AccountLookups.WithLabelValues(metrics.LookupError).Inc()
		return u, err
	}
	metrics.AccountLookups.WithLabelValues(metrics.LookupMiss).Inc()
	c.store(u)
	return u, nil
}

func (c *Cached) store(u providers.User) {
	c.cache.Set(idKey(u.AccountID), u)
	if u.Username != "" {
		c.cache.Set(usernameKey(u.Username), u)
	}
}

func (c *Cached) forget(ctx context.Context, id int) {
	if old, err := c.next.ByID(ctx, id); err == nil && old.Username != "" {
		c.cache.Delete(usernameKey(old.Username))
	}
	c.cache.Delete(idKey(id))
}

// Put writes user to the underlying directory.
func (c *Cached) Put(ctx context.Context, user providers.User) error {
	c.forget(ctx, user.AccountID)
	if user.Username != "" {
		c.cache.Delete(usernameKey(user.Username))
	}
	return c.next.Put(ctx, user)
}

// Delete removes an account from the underlying directory.
func (c *Cached) Delete(ctx context.Context, id int) error {
	c.forget(ctx, id)
	return c.next.Delete(ctx, id)
}
