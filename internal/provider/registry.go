package provider

import (
	"errors"
	"sync"
)

var (
	errSymbolEmpty   = errors.New("symbol must be provided")
	errStartAfterEnd = errors.New("start must be <= end")
)

// Registry manages market data provider plugins
type Registry struct {
	mu        sync.RWMutex
	providers map[string]MarketDataProvider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]MarketDataProvider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p MarketDataProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (MarketDataProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// GetAll returns all registered providers
func (r *Registry) GetAll() []MarketDataProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]MarketDataProvider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}
