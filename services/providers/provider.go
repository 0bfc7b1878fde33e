package providers

import (
	"context"
	"fmt"
	"sync"

	"lyrics-fetch-go/lyrics"
)

// Provider defines the interface that every lyrics source must implement.
type Provider interface {
	// Name returns the provider's identifier (e.g., "lrclib", "qm", "kg", "ne").
	Name() string

	// Search returns candidate songs matching keyword. page is 1-indexed;
	// providers that cannot paginate server-side may apply it client-side
	// or ignore it beyond page 1.
	Search(ctx context.Context, keyword string, page int) ([]lyrics.Song, error)

	// FetchLyrics retrieves the lyrics bundle for a specific song previously
	// returned by Search (or reconstructed with the same identifying Extra
	// fields).
	FetchLyrics(ctx context.Context, song lyrics.Song) (*lyrics.LyricsBundle, error)
}

// Registry holds all registered providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// GetRegistry returns the global provider registry.
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = &Registry{
			providers: make(map[string]Provider),
		}
	})
	return globalRegistry
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Has checks if a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}
