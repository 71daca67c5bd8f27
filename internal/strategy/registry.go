package strategy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrStrategyExists   = errors.New("strategy already registered")
	ErrStrategyNotFound = errors.New("strategy not found")
)

var registry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: make(map[string]Factory),
}

func init() {
	registerBuiltIns()
}

// Register adds a named strategy factory.
func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("strategy name is required")
	}
	if factory == nil {
		return fmt.Errorf("strategy factory is required for %s", name)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrStrategyExists, name)
	}
	registry.m[name] = factory
	return nil
}

func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// Resolve returns the factory for a registered strategy kind.
func Resolve(name string) (Factory, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	factory, ok := registry.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStrategyNotFound, name)
	}
	return factory, nil
}

// Names lists registered strategy kinds in sorted order.
func Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.m))
	for name := range registry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
