package provider

import (
	"fmt"
	"sync"
)

// Factory is a constructor function that creates a new Fetcher instance.
type Factory func(deps Deps) Fetcher

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a usage fetcher factory available by provider id.
// It is typically called from an init() function in the adapter package.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("provider: duplicate registration for %q", name))
	}
	factories[name] = factory
}

// New creates a new Fetcher by provider id using the registered factory.
func New(name string, deps Deps) (Fetcher, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider: unknown provider %q", name)
	}
	return factory(deps), nil
}

// Available returns the ids of all registered providers.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
