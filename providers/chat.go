package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"

	"house_crush/extract"
	"house_crush/models"
	"house_crush/query"
)

// System prompt shared by the chat providers. The schema mirrors the
// canonical listing shape so extraction downstream stays trivial.
const chatSystemPrompt = `You are a rental property search assistant. The user describes what they are looking for; you find current rental listings that match.

Rules:
- Return ONLY a JSON array, no commentary before or after it.
- Return up to 10 listings, best matches first.
- Only include listings matching at least 80% of the user's criteria.
- Use the exact listing URL of the property page, never a search or category page.
- Include contact details when the listing exposes them.

Each array element must follow this schema:
{
  "title": "string",
  "price": 1500,
  "location": "string",
  "bedrooms": 2,
  "bathrooms": 1,
  "description": "string",
  "url": "https://...",
  "contact": {"name": "string", "phone": "string", "email": "string"},
  "match_score": 85,
  "amenities": ["string"],
  "availability_date": "YYYY-MM-DD",
  "images": ["https://..."]
}`

// JSON Schema used to reject malformed listing objects per-item
// before they reach extraction. Deliberately loose on numeric fields:
// chat models send numbers, quoted numbers, and "$1,500" alike.
const chatListingSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "price": {"type": ["number", "string", "null"]},
    "location": {"type": ["string", "null"]},
    "bedrooms": {"type": ["number", "string", "null"]},
    "bathrooms": {"type": ["number", "string", "null"]},
    "description": {"type": ["string", "null"]},
    "url": {"type": ["string", "null"]},
    "match_score": {"type": ["number", "string", "null"]},
    "amenities": {"type": ["array", "null"], "items": {"type": "string"}},
    "availability_date": {"type": ["string", "null"]},
    "images": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var listingSchema = jsonschema.MustCompileString("chat_listing.json", chatListingSchema)

// chatClient is the plumbing both chat providers share: one
// OpenAI-compatible endpoint, one request shape, one response parser.
type chatClient struct {
	name        string
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	configured  bool
	snap        Snapshotter
}

func newChatClient(name, apiKey, baseURL, model string, maxTokens int, snap Snapshotter) *chatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &chatClient{
		name:        name,
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: 0.1,
		configured:  apiKey != "",
		snap:        snap,
	}
}

func (c *chatClient) status() models.ProviderStatus {
	return models.ProviderStatus{
		Name:       c.name,
		Configured: c.configured,
		Model:      c.model,
	}
}

func (c *chatClient) search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error) {
	if !query.ValidCity(filters.Location) {
		return nil, ErrInvalidLocation
	}
	if !c.configured {
		return nil, fmt.Errorf("%s: %w", c.name, ErrNotConfigured)
	}

	prompt := query.BuildConversational(filters)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty completion", c.name)
	}

	content := resp.Choices[0].Message.Content
	if c.snap != nil {
		c.snap.Snapshot(ctx, c.name, []byte(content))
	}

	items, err := ParseChatListings(content)
	if err != nil {
		// The model answered in prose. Salvage one best-effort
		// listing rather than returning nothing.
		log.Printf("%s: JSON parse failed (%v), falling back to text heuristics", c.name, err)
		items = []models.ChatListing{fallbackListing(content, filters)}
	}

	return c.toListings(items, filters), nil
}

func (c *chatClient) toListings(items []models.ChatListing, filters models.SearchFilters) []models.Listing {
	var listings []models.Listing
	for _, item := range items {
		partial := extract.FromChat(item)
		if partial.MatchScore == nil {
			score := extract.Score(item.Title, item.Description, filters)
			partial.MatchScore = &score
		}
		if partial.Location == "" {
			partial.Location = filters.Location
		}
		listings = append(listings, extract.Normalize(partial, len(listings)+1, nil))
	}
	return listings
}

// ParseChatListings pulls listing objects out of a chat completion.
// Models wrap JSON in prose and code fences despite instructions, so
// candidates are tried in order: the raw content, a ```json fence, a
// bare ``` fence, the widest [...] span, the widest {...} span.
func ParseChatListings(content string) ([]models.ChatListing, error) {
	for _, candidate := range jsonCandidates(content) {
		items, err := decodeListings(candidate)
		if err == nil && len(items) > 0 {
			return items, nil
		}
	}
	return nil, fmt.Errorf("no valid listing JSON in completion")
}

func jsonCandidates(content string) []string {
	candidates := []string{strings.TrimSpace(content)}

	for _, fence := range []string{"```json", "```"} {
		if start := strings.Index(content, fence); start >= 0 {
			rest := content[start+len(fence):]
			if end := strings.Index(rest, "```"); end >= 0 {
				candidates = append(candidates, strings.TrimSpace(rest[:end]))
			}
		}
	}

	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			candidates = append(candidates, content[start:end+1])
		}
	}
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			candidates = append(candidates, content[start : end+1])
		}
	}

	return candidates
}

// decodeListings accepts either an array of listing objects or a
// single object. Each element is schema-checked; bad elements are
// dropped, never fatal for the batch.
func decodeListings(candidate string) ([]models.ChatListing, error) {
	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &rawItems); err != nil {
		var single json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &single); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(strings.TrimSpace(candidate), "{") {
			return nil, fmt.Errorf("not a JSON object or array")
		}
		rawItems = []json.RawMessage{single}
	}

	var items []models.ChatListing
	for _, raw := range rawItems {
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			continue
		}
		if err := listingSchema.Validate(generic); err != nil {
			continue
		}
		var item models.ChatListing
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no listing objects passed validation")
	}
	return items, nil
}

// fallbackListing manufactures a single listing from prose using the
// same regex extractors the other providers rely on.
func fallbackListing(content string, filters models.SearchFilters) models.ChatListing {
	text := strings.ToLower(content)

	title := "Rental Property"
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		title = "Rental Property in " + loc
	}

	description := strings.TrimSpace(content)
	if runes := []rune(description); len(runes) > 300 {
		description = string(runes[:300]) + "..."
	}

	return models.ChatListing{
		Title:       title,
		Location:    filters.Location,
		Description: description,
		Price:       models.FlexInt{Value: extract.Price(text)},
		Bedrooms:    models.FlexInt{Value: extract.Bedrooms(text)},
		Bathrooms:   models.FlexInt{Value: extract.Bathrooms(text)},
		Amenities:   extract.Amenities(text),
		Contact:     extract.Contact(content),
	}
}
