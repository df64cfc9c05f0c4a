package providers

import (
	"context"

	"house_crush/config"
	"house_crush/models"
)

const openaiMaxTokens = 4000

// OpenAIProvider asks an OpenAI chat model for listings matching the
// filters, phrased as a natural-language request.
type OpenAIProvider struct {
	chat *chatClient
}

func NewOpenAIProvider(cfg *config.Config, snap Snapshotter) *OpenAIProvider {
	return &OpenAIProvider{
		chat: newChatClient("openai", cfg.OpenAI.APIKey, "", cfg.OpenAI.Model, openaiMaxTokens, snap),
	}
}

func (p *OpenAIProvider) ID() string { return "openai" }

func (p *OpenAIProvider) Status() models.ProviderStatus { return p.chat.status() }

func (p *OpenAIProvider) Search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error) {
	return p.chat.search(ctx, filters)
}
