package providers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"house_crush/models"
)

func TestParseChatListings_RawArray(t *testing.T) {
	content := `[
		{"title": "2 Bed Condo at 88 Blue Jays Way", "price": 2400, "location": "Toronto, ON", "bedrooms": 2, "bathrooms": 2, "url": "https://www.apartments.com/88-blue-jays-way/", "match_score": 90},
		{"title": "1 Bed Basement Suite", "price": "1,650", "location": "Toronto, ON", "bedrooms": "1", "match_score": "75"}
	]`

	items, err := ParseChatListings(content)
	if err != nil {
		t.Fatalf("ParseChatListings: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(items))
	}
	if items[0].Title != "2 Bed Condo at 88 Blue Jays Way" {
		t.Errorf("unexpected title %q", items[0].Title)
	}
	if items[0].Price.Value == nil || *items[0].Price.Value != 2400 {
		t.Errorf("expected price 2400, got %v", items[0].Price.Value)
	}
	if items[1].Price.Value == nil || *items[1].Price.Value != 1650 {
		t.Errorf("expected quoted price 1650, got %v", items[1].Price.Value)
	}
	if items[1].MatchScore.Value == nil || *items[1].MatchScore.Value != 75 {
		t.Errorf("expected quoted score 75, got %v", items[1].MatchScore.Value)
	}
}

func TestParseChatListings_CodeFence(t *testing.T) {
	content := "Here are the best matches I found:\n\n```json\n[{\"title\": \"Loft on Queen West\", \"price\": 2100}]\n```\n\nLet me know if you want more options."

	items, err := ParseChatListings(content)
	if err != nil {
		t.Fatalf("ParseChatListings: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Loft on Queen West" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestParseChatListings_ArrayInProse(t *testing.T) {
	content := `I found one listing that fits: [{"title": "Townhouse near High Park", "price": 2800, "bedrooms": 3}] (prices confirmed today).`

	items, err := ParseChatListings(content)
	if err != nil {
		t.Fatalf("ParseChatListings: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Townhouse near High Park" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].Bedrooms.Value == nil || *items[0].Bedrooms.Value != 3 {
		t.Errorf("expected 3 bedrooms, got %v", items[0].Bedrooms.Value)
	}
}

func TestParseChatListings_SingleObject(t *testing.T) {
	content := `{"title": "Studio at 1 Yonge St", "price": 1900, "url": "https://www.zillow.com/b/1-yonge"}`

	items, err := ParseChatListings(content)
	if err != nil {
		t.Fatalf("ParseChatListings: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Studio at 1 Yonge St" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestParseChatListings_DropsInvalidItems(t *testing.T) {
	content := `[
		{"price": 2000},
		{"title": "Valid 2 Bed Apartment", "price": 2200},
		{"title": "", "price": 1800}
	]`

	items, err := ParseChatListings(content)
	if err != nil {
		t.Fatalf("ParseChatListings: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 valid listing, got %d", len(items))
	}
	if items[0].Title != "Valid 2 Bed Apartment" {
		t.Errorf("kept wrong item: %q", items[0].Title)
	}
}

func TestParseChatListings_ProseOnly(t *testing.T) {
	content := "I'm sorry, I could not find any rental listings matching those criteria right now."

	if _, err := ParseChatListings(content); err == nil {
		t.Fatal("expected an error for prose with no JSON")
	}
}

func TestFallbackListing(t *testing.T) {
	content := "I found a great option. A 2 bedroom, 1 bath unit renting for $1,850 per month with parking and laundry included. Call (416) 555-0147 to book a viewing."
	filters := models.SearchFilters{Location: "Toronto"}

	item := fallbackListing(content, filters)

	if item.Title != "Rental Property in Toronto" {
		t.Errorf("unexpected title %q", item.Title)
	}
	if item.Price.Value == nil || *item.Price.Value != 1850 {
		t.Errorf("expected price 1850, got %v", item.Price.Value)
	}
	if item.Bedrooms.Value == nil || *item.Bedrooms.Value != 2 {
		t.Errorf("expected 2 bedrooms, got %v", item.Bedrooms.Value)
	}
	if item.Bathrooms.Value == nil || *item.Bathrooms.Value != 1 {
		t.Errorf("expected 1 bathroom, got %v", item.Bathrooms.Value)
	}
	if item.Contact == nil || item.Contact.Phone != "(416) 555-0147" {
		t.Errorf("unexpected contact %+v", item.Contact)
	}
}

func TestFallbackListing_TruncatesDescription(t *testing.T) {
	content := strings.Repeat("lots of prose about the neighbourhood ", 20)
	item := fallbackListing(content, models.SearchFilters{Location: "Ottawa"})

	if len(item.Description) != 303 {
		t.Errorf("expected truncated description of 303 chars, got %d", len(item.Description))
	}
	if !strings.HasSuffix(item.Description, "...") {
		t.Error("expected description to end with ellipsis")
	}
}

func TestFallbackListing_TruncatesOnRuneBoundary(t *testing.T) {
	content := strings.Repeat("é", 400)
	item := fallbackListing(content, models.SearchFilters{Location: "Montréal"})

	if !utf8.ValidString(item.Description) {
		t.Fatal("truncated description is not valid UTF-8")
	}
	if got := utf8.RuneCountInString(item.Description); got != 303 {
		t.Errorf("expected 303 runes, got %d", got)
	}
}
