package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"house_crush/extract"
	"house_crush/models"
	"house_crush/providers"
	"house_crush/query"
	"house_crush/storage"
)

// Listings from this domain are pulled to the front of deterministic
// provider results.
const preferredDomain = "apartments.com"

// SearchService routes a search to the requested provider, applies
// that provider's ranking policy, and converts every failure into an
// empty result with a human-readable message. Nothing here is ever
// fatal to the caller.
type SearchService struct {
	providers map[string]providers.Provider
	store     *storage.SQLiteStore
	archive   *storage.PostgresStore
}

func NewSearchService(reg map[string]providers.Provider, store *storage.SQLiteStore, archive *storage.PostgresStore) *SearchService {
	return &SearchService{
		providers: reg,
		store:     store,
		archive:   archive,
	}
}

func (s *SearchService) Search(ctx context.Context, providerName string, filters models.SearchFilters) models.SearchResult {
	result := models.SearchResult{
		Provider: providerName,
		Query:    query.BuildConversational(filters),
		Listings: []models.Listing{},
	}

	provider, ok := s.providers[providerName]
	if !ok {
		result.Message = fmt.Sprintf("Unknown search provider %q.", providerName)
		return result
	}

	runID := s.startRun(ctx, providerName, filters.Location)

	listings, err := provider.Search(ctx, filters)
	if err != nil {
		result.Message = searchErrorMessage(providerName, err)
		log.Printf("search: provider %s: %v", providerName, err)
		s.finishRun(ctx, runID, models.RunStatusFailed, 0, 0)
		return result
	}

	found := len(listings)
	listings = s.rank(providerName, listings, filters)

	result.Listings = listings
	result.Count = len(listings)
	if result.Count == 0 {
		result.Message = "No listings matched your filters. Try widening the price range or location."
	}

	s.finishRun(ctx, runID, models.RunStatusCompleted, found, len(listings))
	s.archiveListings(ctx, listings)

	return result
}

// rank applies the per-provider ordering policy. The google and local
// paths are deterministic: hard price/bedroom bounds, preferred
// domain first, declared score within each partition. Chat and
// browser results only get the declared-score sort, since the model
// or the site already ordered them by relevance.
func (s *SearchService) rank(providerName string, listings []models.Listing, filters models.SearchFilters) []models.Listing {
	switch providerName {
	case "google", "local":
		listings = extract.PostFilter(listings, filters)
		listings = extract.RankPreferred(listings, preferredDomain)
	default:
		extract.ByScore(listings)
	}
	for i := range listings {
		listings[i].Rank = i + 1
	}
	return listings
}

// Statuses reports configuration state for every registered provider.
func (s *SearchService) Statuses() []models.ProviderStatus {
	statuses := make([]models.ProviderStatus, 0, len(s.providers))
	for _, p := range s.providers {
		statuses = append(statuses, p.Status())
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}

func searchErrorMessage(providerName string, err error) string {
	switch {
	case errors.Is(err, providers.ErrInvalidLocation):
		return "Please enter a valid city or neighbourhood name."
	case errors.Is(err, providers.ErrNotConfigured):
		return fmt.Sprintf("The %s provider is not configured. Check its API credentials.", providerName)
	default:
		return fmt.Sprintf("The %s search failed: %v", providerName, err)
	}
}

func (s *SearchService) startRun(ctx context.Context, provider, location string) *int64 {
	if s.store == nil {
		return nil
	}
	run := &models.CollectRun{
		Provider:  provider,
		Location:  location,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	id, err := s.store.CreateRun(ctx, run)
	if err != nil {
		log.Printf("search: create run: %v", err)
		return nil
	}
	return &id
}

func (s *SearchService) finishRun(ctx context.Context, runID *int64, status models.RunStatus, found, kept int) {
	if s.store == nil || runID == nil {
		return
	}
	if err := s.store.FinishRun(ctx, *runID, status, found, kept); err != nil {
		log.Printf("search: finish run: %v", err)
	}
}

func (s *SearchService) archiveListings(ctx context.Context, listings []models.Listing) {
	if s.archive == nil || len(listings) == 0 {
		return
	}
	if err := s.archive.SaveListings(ctx, listings); err != nil {
		log.Printf("search: archive listings: %v", err)
	}
}
