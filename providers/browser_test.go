package providers

import (
	"testing"

	"house_crush/config"
)

func testSite() *config.SiteConfig {
	return &config.SiteConfig{
		ID:             "apartments_com",
		Name:           "Apartments.com",
		Domain:         "apartments.com",
		SearchURL:      "https://www.apartments.com/%s/",
		CardSelectors:  []string{"li.mortar-wrapper", "article.placard"},
		TitleSelectors: []string{"span.js-placardTitle", ".property-title"},
		PriceSelectors: []string{".property-pricing", ".price-range"},
	}
}

func TestParseResultsPage(t *testing.T) {
	html := string(loadFixture(t, "results_page.html"))

	items, err := ParseResultsPage(html, testSite(), "https://www.apartments.com/toronto-on/")
	if err != nil {
		t.Fatalf("ParseResultsPage: %v", err)
	}

	// The third card has no title and is skipped.
	if len(items) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(items))
	}

	first := items[0]
	if first.Title != "45 King St W Unit 7 - 2 Bed Condo" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.PriceText != "$2,100/mo" {
		t.Errorf("unexpected price text %q", first.PriceText)
	}
	if first.URL != "https://www.apartments.com/45-king-st-w-toronto-on/2-bed" {
		t.Errorf("relative href not resolved: %q", first.URL)
	}
	if first.SiteName != "Apartments.com" {
		t.Errorf("unexpected site name %q", first.SiteName)
	}

	if items[1].URL != "https://www.apartments.com/12-main-st-toronto-on/" {
		t.Errorf("absolute href rewritten: %q", items[1].URL)
	}
}

func TestParseResultsPage_NoCardSelectorMatches(t *testing.T) {
	site := testSite()
	site.CardSelectors = []string{".does-not-exist"}

	items, err := ParseResultsPage("<html><body><p>empty</p></body></html>", site, "https://www.apartments.com/toronto-on/")
	if err != nil {
		t.Fatalf("ParseResultsPage: %v", err)
	}
	if items != nil {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestLocationSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Toronto", "toronto"},
		{"  North York  ", "north-york"},
		{"St. John's", "st.-john%27s"},
	}
	for _, tt := range tests {
		if got := locationSlug(tt.in); got != tt.want {
			t.Errorf("locationSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
