package extract

import (
	"regexp"
	"strings"
)

// Off-market phrases anywhere in title+snippet disqualify a result.
var offMarketKeywords = []string{
	"off-market",
	"off market",
	"no longer available",
	"not for rent",
	"rental history",
}

var (
	// Aggregator/category page titles rather than single listings.
	genericTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`apartments\s+for\s+rent`),
		regexp.MustCompile(`condos\s+for\s+rent`),
		regexp.MustCompile(`homes\s+for\s+rent`),
		regexp.MustCompile(`houses\s+for\s+rent`),
		regexp.MustCompile(`rentals\s+in\s+`),
		regexp.MustCompile(`find\s+(?:apartments|rentals|homes)`),
	}

	// A street address in the title marks a genuine single-listing
	// page even when the title also carries a generic phrase.
	streetAddressPattern = regexp.MustCompile(`\d+\s+[a-z0-9\s]+\b(?:st|street|ave|avenue|rd|road|blvd|dr|ln|ct)\b`)

	// "1,234 rentals" / "rentals from $900" aggregate counters.
	aggregatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,3}(?:,\d{3})*\s+rentals`),
		regexp.MustCompile(`rentals\s+from\s+c?\$`),
	}
)

// IsRealListing decides whether a search result points at an actual
// rental listing. Three stages, in order: off-market keywords, generic
// aggregator titles (with a street-address exception), and aggregate
// "N rentals" counters. The stages must not be reordered: the address
// exception only shields against the generic-title stage.
func IsRealListing(title, snippet string) bool {
	combined := strings.ToLower(title + " " + snippet)
	for _, kw := range offMarketKeywords {
		if strings.Contains(combined, kw) {
			return false
		}
	}

	lowerTitle := strings.ToLower(title)
	for _, pattern := range genericTitlePatterns {
		if pattern.MatchString(lowerTitle) && !streetAddressPattern.MatchString(lowerTitle) {
			return false
		}
	}

	for _, pattern := range aggregatePatterns {
		if pattern.MatchString(lowerTitle) {
			return false
		}
	}

	return true
}
