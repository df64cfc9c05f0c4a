package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"house_crush/models"
)

// LocalFileProvider serves previously collected listings from the
// newline-delimited JSON file the collector maintains. It is the only
// provider that works fully offline.
type LocalFileProvider struct {
	path string
}

func NewLocalFileProvider(path string) *LocalFileProvider {
	return &LocalFileProvider{path: path}
}

func (p *LocalFileProvider) ID() string { return "local" }

func (p *LocalFileProvider) Status() models.ProviderStatus {
	_, err := os.Stat(p.path)
	return models.ProviderStatus{
		Name:       "local",
		Configured: err == nil,
	}
}

func (p *LocalFileProvider) Search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open listings file: %w", err)
	}
	defer f.Close()

	location := strings.ToLower(strings.TrimSpace(filters.Location))

	var listings []models.Listing
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var listing models.Listing
		if err := json.Unmarshal([]byte(line), &listing); err != nil {
			// One bad line never drops the batch.
			log.Printf("local: skipping malformed line: %v", err)
			continue
		}
		if location != "" && !matchesLocation(listing, location) {
			continue
		}
		listing.Rank = len(listings) + 1
		listings = append(listings, listing)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read listings file: %w", err)
	}

	return listings, nil
}

func matchesLocation(listing models.Listing, location string) bool {
	return strings.Contains(strings.ToLower(listing.Location), location) ||
		strings.Contains(strings.ToLower(listing.Title), location)
}
