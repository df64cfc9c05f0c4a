package extract

import "testing"

func TestIsRealListing_OffMarket(t *testing.T) {
	cases := []struct {
		title   string
		snippet string
	}{
		{"2 Bed Condo Downtown", "This unit is no longer available."},
		{"Off-Market Property Report", "Historic pricing data"},
		{"123 Main St", "Not for rent, view rental history instead"},
	}
	for _, c := range cases {
		if IsRealListing(c.title, c.snippet) {
			t.Fatalf("expected reject for %q / %q", c.title, c.snippet)
		}
	}
}

func TestIsRealListing_GenericTitle(t *testing.T) {
	if IsRealListing("Apartments for Rent in Toronto", "Browse thousands of units") {
		t.Fatal("generic aggregator title without address should be rejected")
	}
	if IsRealListing("Condos for Rent in Toronto", "Compare condo rentals") {
		t.Fatal("generic condo aggregator title should be rejected")
	}
	if !IsRealListing("123 Main St Apartments for Rent", "Spacious 2 bedroom") {
		t.Fatal("street address should protect a generic-looking title")
	}
}

func TestIsRealListing_AggregateCounters(t *testing.T) {
	if IsRealListing("1,234 Rentals in Vancouver", "Browse listings") {
		t.Fatal("rental-count title should be rejected")
	}
	if IsRealListing("Rentals from $900 per month", "Find deals") {
		t.Fatal("'rentals from $' title should be rejected")
	}
	if IsRealListing("Rentals from C$1,200", "Canadian listings") {
		t.Fatal("'rentals from C$' title should be rejected")
	}
}

func TestIsRealListing_Accepts(t *testing.T) {
	if !IsRealListing("Bright 2 Bed/1 Bath at 45 King St W - $2,100/month", "Available March 1") {
		t.Fatal("genuine listing should be accepted")
	}
}
