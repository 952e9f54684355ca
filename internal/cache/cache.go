// Package cache provides the Cache interface used to keep recently looked up
// accounts in memory in front of the account directory. The default
// in-process implementation is Memory.
package cache

import "github.com/ferro-labs/avatars-external/providers"

// Cache defines the interface for account caching.
type Cache interface {
	Get(key string) (providers.User, bool)
	Set(key string, user providers.User)
	Delete(key string)
	Len() int
	Clear()
}
