package providers

import (
	"context"

	"house_crush/config"
	"house_crush/models"
)

const (
	perplexityBaseURL   = "https://api.perplexity.ai"
	perplexityMaxTokens = 2000
)

// PerplexityProvider uses Perplexity's OpenAI-compatible chat API,
// which searches the live web before answering.
type PerplexityProvider struct {
	chat *chatClient
}

func NewPerplexityProvider(cfg *config.Config, snap Snapshotter) *PerplexityProvider {
	return &PerplexityProvider{
		chat: newChatClient("perplexity", cfg.Perplexity.APIKey, perplexityBaseURL, cfg.Perplexity.Model, perplexityMaxTokens, snap),
	}
}

func (p *PerplexityProvider) ID() string { return "perplexity" }

func (p *PerplexityProvider) Status() models.ProviderStatus { return p.chat.status() }

func (p *PerplexityProvider) Search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error) {
	return p.chat.search(ctx, filters)
}
