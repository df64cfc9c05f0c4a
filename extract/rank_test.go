package extract

import (
	"testing"

	"house_crush/models"
)

func listing(title string, score int, price, beds *int, url string) models.Listing {
	l := models.NewListing()
	l.Title = title
	l.MatchScore = score
	l.Price = price
	l.Bedrooms = beds
	l.ListingURL = url
	return l
}

func TestByScore_StableOnTies(t *testing.T) {
	listings := []models.Listing{
		listing("a", 50, nil, nil, ""),
		listing("b", 80, nil, nil, ""),
		listing("c", 50, nil, nil, ""),
	}
	ByScore(listings)

	got := []string{listings[0].Title, listings[1].Title, listings[2].Title}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestPostFilter(t *testing.T) {
	filters := models.SearchFilters{
		MinPrice: models.IntPtr(1500),
		MaxPrice: models.IntPtr(2500),
		Bedrooms: models.IntPtr(2),
	}
	listings := []models.Listing{
		listing("in-range", 90, models.IntPtr(2000), models.IntPtr(2), ""),
		listing("too-cheap", 90, models.IntPtr(1200), models.IntPtr(2), ""),
		listing("too-expensive", 90, models.IntPtr(3000), models.IntPtr(2), ""),
		listing("too-small", 90, models.IntPtr(2000), models.IntPtr(1), ""),
		listing("no-price", 90, nil, models.IntPtr(2), ""),
		listing("more-beds-ok", 90, models.IntPtr(1800), models.IntPtr(3), ""),
	}

	kept := PostFilter(listings, filters)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	if kept[0].Title != "in-range" || kept[1].Title != "more-beds-ok" {
		t.Fatalf("unexpected survivors: %s, %s", kept[0].Title, kept[1].Title)
	}
}

func TestRankPreferred(t *testing.T) {
	listings := []models.Listing{
		listing("zillow-high", 90, nil, nil, "https://www.zillow.com/1"),
		listing("apts-low", 40, nil, nil, "https://www.apartments.com/1"),
		listing("zillow-low", 50, nil, nil, "https://www.zillow.com/2"),
		listing("apts-high", 70, nil, nil, "https://www.apartments.com/2"),
	}

	ranked := RankPreferred(listings, "apartments.com")

	got := make([]string, len(ranked))
	for i, l := range ranked {
		got[i] = l.Title
	}
	want := []string{"apts-high", "apts-low", "zillow-high", "zillow-low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}
