package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"house_crush/config"
	"house_crush/extract"
	"house_crush/models"
	"house_crush/query"
)

const googleSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleProvider searches rental sites through the Custom Search API
// and runs the results through the quality gate and field extractor.
type GoogleProvider struct {
	cfg         config.GoogleConfig
	client      *http.Client
	domains     []string
	domainNames map[string]string
	snap        Snapshotter
}

func NewGoogleProvider(cfg *config.Config, client *http.Client, snap Snapshotter) *GoogleProvider {
	return &GoogleProvider{
		cfg:         cfg.Google,
		client:      client,
		domains:     cfg.QueryDomains(),
		domainNames: cfg.DomainNames(),
		snap:        snap,
	}
}

func (p *GoogleProvider) ID() string { return "google" }

func (p *GoogleProvider) Status() models.ProviderStatus {
	return models.ProviderStatus{
		Name:       "google",
		Configured: p.cfg.APIKey != "" && p.cfg.SearchEngineID != "",
	}
}

func (p *GoogleProvider) Search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error) {
	q := query.Build(filters, p.domains)
	if q == "" {
		return nil, ErrInvalidLocation
	}
	// The API bills per call and responds 400 to empty params the
	// same way it responds to quota errors, so abort client-side.
	if p.cfg.APIKey == "" || p.cfg.SearchEngineID == "" {
		return nil, fmt.Errorf("google: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("key", p.cfg.APIKey)
	params.Set("cx", p.cfg.SearchEngineID)
	params.Set("q", q)
	params.Set("num", "10")
	params.Set("safe", "active")
	params.Set("lr", "lang_en")
	params.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, "GET", googleSearchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search error %d: %s", resp.StatusCode, string(body))
	}

	if p.snap != nil {
		p.snap.Snapshot(ctx, "google", body)
	}

	listings, err := p.parseResponse(body, filters)
	if err != nil {
		return nil, err
	}
	log.Printf("google: query %q returned %d listings", q, len(listings))
	return listings, nil
}

func (p *GoogleProvider) parseResponse(body []byte, filters models.SearchFilters) ([]models.Listing, error) {
	var result models.GoogleResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("google search parse: %w", err)
	}

	var listings []models.Listing
	for _, item := range result.Items {
		if !extract.IsRealListing(item.Title, item.Snippet) {
			continue
		}
		partial := extract.FromGoogle(item)
		score := extract.Score(item.Title, item.Snippet, filters)
		partial.MatchScore = &score
		if partial.Location == "" {
			partial.Location = filters.Location
		}
		listings = append(listings, extract.Normalize(partial, len(listings)+1, p.domainNames))
	}
	return listings, nil
}
