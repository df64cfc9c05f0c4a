package providers

import (
	"context"
	"errors"
	"fmt"

	"house_crush/config"
	"house_crush/httputil"
	"house_crush/models"
)

// ErrInvalidLocation marks a search that was rejected before any
// network call because the location failed validation.
var ErrInvalidLocation = errors.New("location failed city-name validation")

// ErrNotConfigured marks a provider missing its credentials.
var ErrNotConfigured = errors.New("provider is not configured")

// Provider answers "find rentals matching these filters". Backends
// are interchangeable: search API, chat model, headless browser, or
// a local file of previously collected listings.
type Provider interface {
	ID() string
	Status() models.ProviderStatus
	Search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error)
}

// Snapshotter persists raw provider responses for later inspection.
// Implementations must never fail the search: errors are logged, not
// returned.
type Snapshotter interface {
	Snapshot(ctx context.Context, name string, body []byte)
}

// New constructs the named provider from config.
func New(name string, cfg *config.Config, clients *httputil.Clients, snap Snapshotter) (Provider, error) {
	switch name {
	case "google":
		return NewGoogleProvider(cfg, clients.API, snap), nil
	case "openai":
		return NewOpenAIProvider(cfg, snap), nil
	case "perplexity":
		return NewPerplexityProvider(cfg, snap), nil
	case "browser":
		return NewBrowserProvider(cfg), nil
	case "local":
		return NewLocalFileProvider(cfg.AdsPath), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// All returns every provider New knows how to build.
func All(cfg *config.Config, clients *httputil.Clients, snap Snapshotter) map[string]Provider {
	names := []string{"google", "openai", "perplexity", "browser", "local"}
	out := make(map[string]Provider, len(names))
	for _, name := range names {
		p, err := New(name, cfg, clients, snap)
		if err != nil {
			continue
		}
		out[name] = p
	}
	return out
}
