package accounts

import (
	"context"
	"fmt"
	"sync"

	"github.com/ferro-labs/avatars-external/providers"
)

// Memory is an in-process Directory. It is the default when no database is
// configured and is handy in tests.
type Memory struct {
	mu         sync.RWMutex
	byID       map[int]providers.User
	byUsername map[string]int
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		byID:       make(map[int]providers.User),
		byUsername: make(map[string]int),
	}
}

// ByID returns the account with the given id.
func (m *Memory) ByID(_ context.Context, id int) (providers.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return providers.User{}, ErrNotFound
	}
	return u, nil
}

// ByUsername returns the account with the given username.
func (m *Memory) ByUsername(_ context.Context, username string) (providers.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUsername[username]
	if !ok || username == "" {
		return providers.User{}, ErrNotFound
	}
	return m.byID[id], nil
}

// Put inserts or replaces an account.
func (m *Memory) Put(_ context.Context, user providers.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.Username != "" {
		if owner, ok := m.byUsername[user.Username]; ok && owner != user.AccountID {
			return fmt.Errorf("%w: %q is used by account %d", ErrConflict, user.Username, owner)
		}
	}
	if old, ok := m.byID[user.AccountID]; ok && old.Username != "" {
		delete(m.byUsername, old.Username)
	}
	m.byID[user.AccountID] = user
	if user.Username != "" {
		m.byUsername[user.Username] = user.AccountID
	}
	return nil
}

// Delete removes an account.
func (m *Memory) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	if u.Username != "" {
		delete(m.byUsername, u.Username)
	}
	return nil
}
