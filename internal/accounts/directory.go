// Package accounts provides the account directory the avatar service uses to
// turn the account key in a request path into a providers.User.
//
// Directories are backed by memory, SQLite (modernc.org/sqlite) or Postgres
// (lib/pq), optionally fronted by an LRU cache (see Cached).
package accounts

import (
	"context"
	"errors"
	"strconv"

	"github.com/ferro-labs/avatars-external/providers"
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

// ErrConflict is returned by Put when the username belongs to another account.
var ErrConflict = errors.New("username already in use")

// Directory stores and looks up accounts.
type Directory interface {
	ByID(ctx context.Context, id int) (providers.User, error)
	ByUsername(ctx context.Context, username string) (providers.User, error)
	Put(ctx context.Context, user providers.User) error
	Delete(ctx context.Context, id int) error
}

// Lookup resolves key as a numeric account id first and as a username
// otherwise. A numeric key that matches no id is retried as a username.
func Lookup(ctx context.Context, dir Directory, key string) (providers.User, error) {
	if id, err := strconv.Atoi(key); err == nil {
		u, err := dir.ByID(ctx, id)
		if !errors.Is(err, ErrNotFound) {
			return u, err
		}
	}
	return dir.ByUsername(ctx, key)
}
