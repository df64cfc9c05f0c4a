package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"house_crush/models"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

func TestGoogleParseResponse_Basic(t *testing.T) {
	p := &GoogleProvider{}
	data := loadFixture(t, "google_search_basic.json")

	filters := models.SearchFilters{
		Location: "Toronto",
		Bedrooms: models.IntPtr(2),
	}
	listings, err := p.parseResponse(data, filters)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	// The aggregator item is gated out.
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Price == nil || *first.Price != 2100 {
		t.Fatalf("expected structured price 2100, got %v", first.Price)
	}
	if first.Bedrooms == nil || *first.Bedrooms != 2 {
		t.Fatalf("expected 2 bedrooms, got %v", first.Bedrooms)
	}
	if first.ListingURL != "https://www.apartments.com/45-king-st-w/unit-7" {
		t.Fatalf("expected offer.url as canonical URL, got %q", first.ListingURL)
	}
	if first.SourceWebsite != "Apartments.com" {
		t.Fatalf("expected display name, got %q", first.SourceWebsite)
	}
	if first.Contact.Phone != "(416) 555-0199" {
		t.Fatalf("expected extracted phone, got %q", first.Contact.Phone)
	}
	if first.Rank != 1 {
		t.Fatalf("expected rank 1, got %d", first.Rank)
	}

	second := listings[1]
	if second.Price == nil || *second.Price != 2400 {
		t.Fatalf("expected regex price 2400, got %v", second.Price)
	}
	if second.SourceWebsite != "Zillow" {
		t.Fatalf("expected Zillow, got %q", second.SourceWebsite)
	}
	if second.Rank != 2 {
		t.Fatalf("expected rank 2, got %d", second.Rank)
	}
}

func TestGoogleSearch_InvalidLocation(t *testing.T) {
	p := &GoogleProvider{}
	_, err := p.Search(context.Background(), models.SearchFilters{Location: "$2300"})
	if err != ErrInvalidLocation {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}
