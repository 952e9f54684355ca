package providers

import (
	"sort"
	"sync"
)

// Registry holds provider instances for lookup by name. It is safe for
// concurrent use; the Resolver keeps one and hands Get to its strategy.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry, replacing any provider with the
// same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name and whether it was found.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Factory builds a provider instance from configuration.
type Factory func(opts Options) (Provider, error)

// factories is the global registry of provider factories, keyed by type.
var factories = map[string]Factory{}

// RegisterFactory registers a provider factory under a type name. Built-in
// providers register themselves from init.
func RegisterFactory(typ string, factory Factory) {
	factories[typ] = factory
}

// GetFactory returns a provider factory by type name.
func GetFactory(typ string) (Factory, bool) {
	f, ok := factories[typ]
	return f, ok
}

// RegisteredTypes returns the sorted type names of all registered factories.
func RegisteredTypes() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
