package query

import (
	"fmt"
	"regexp"
	"strings"

	"house_crush/models"
)

// Words that indicate the "location" field was filled with something
// that is not a place name. A bad location still burns search quota,
// so Build rejects it up front.
var locationStopwords = []string{
	"price", "rent", "apartment", "house",
	"bedroom", "bathroom", "sqft", "sq ft",
}

var (
	numericRegex    = regexp.MustCompile(`^\$?\d+(,\d{3})*(\.\d+)?$`)
	hasLetterRegex  = regexp.MustCompile(`[a-zA-Z]`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// ValidCity reports whether location looks like a real city name
// rather than a price, a number, or a stray form value.
func ValidCity(location string) bool {
	loc := strings.TrimSpace(location)
	if len(loc) <= 2 {
		return false
	}
	if numericRegex.MatchString(loc) {
		return false
	}
	if !hasLetterRegex.MatchString(loc) {
		return false
	}
	lower := strings.ToLower(loc)
	for _, word := range locationStopwords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// Build assembles a boolean search-engine query from the filters.
// Returns "" when the location fails validation, which callers treat
// as "do not search".
func Build(filters models.SearchFilters, targetSites []string) string {
	if !ValidCity(filters.Location) {
		return ""
	}

	parts := []string{
		fmt.Sprintf("apartments for rent in %s", strings.TrimSpace(filters.Location)),
	}

	if len(targetSites) > 0 {
		sites := make([]string, len(targetSites))
		for i, domain := range targetSites {
			sites[i] = "site:" + domain
		}
		parts = append(parts, "("+strings.Join(sites, " OR ")+")")
	}

	switch {
	case filters.MinPrice != nil && filters.MaxPrice != nil:
		parts = append(parts, fmt.Sprintf("$%d..$%d", *filters.MinPrice, *filters.MaxPrice))
	case filters.MaxPrice != nil:
		parts = append(parts, fmt.Sprintf("rent under $%d", *filters.MaxPrice))
	case filters.MinPrice != nil:
		parts = append(parts, fmt.Sprintf("rent over $%d", *filters.MinPrice))
	}

	if filters.Bedrooms != nil {
		n := *filters.Bedrooms
		parts = append(parts, fmt.Sprintf(`("%d bedroom" OR "%d bed")`, n, n))
	}

	if len(filters.Amenities) > 0 {
		quoted := make([]string, 0, 3)
		for _, a := range filters.Amenities {
			if a = strings.TrimSpace(a); a == "" {
				continue
			}
			quoted = append(quoted, `"`+a+`"`)
			if len(quoted) == 3 {
				break
			}
		}
		if len(quoted) > 0 {
			parts = append(parts, "("+strings.Join(quoted, " OR ")+")")
		}
	}

	if n := len(filters.Lifestyle); n > 0 {
		if n > 3 {
			n = 3
		}
		parts = append(parts, strings.Join(filters.Lifestyle[:n], " "))
	}

	return multiSpaceRegex.ReplaceAllString(strings.Join(parts, " "), " ")
}

// BuildConversational turns the filters into a natural-language
// request for the chat providers, first-person with explicit
// expectations about result count, quality, and URLs.
func BuildConversational(filters models.SearchFilters) string {
	var b strings.Builder

	location := strings.TrimSpace(filters.Location)
	if location == "" {
		location = "my area"
	}
	fmt.Fprintf(&b, "I'm looking for a rental property in %s.", location)

	switch {
	case filters.MinPrice != nil && filters.MaxPrice != nil:
		fmt.Fprintf(&b, " My budget is between $%d and $%d per month.", *filters.MinPrice, *filters.MaxPrice)
	case filters.MaxPrice != nil:
		fmt.Fprintf(&b, " My budget is up to $%d per month.", *filters.MaxPrice)
	case filters.MinPrice != nil:
		fmt.Fprintf(&b, " I can spend at least $%d per month.", *filters.MinPrice)
	}

	if filters.Bedrooms != nil {
		fmt.Fprintf(&b, " I need at least %d bedroom(s).", *filters.Bedrooms)
	}

	if len(filters.Amenities) > 0 {
		fmt.Fprintf(&b, " I would like these amenities: %s.", strings.Join(filters.Amenities, ", "))
	}

	if len(filters.Lifestyle) > 0 {
		fmt.Fprintf(&b, " Lifestyle preferences: %s.", strings.Join(filters.Lifestyle, ", "))
	}

	b.WriteString(" Find the top 10 current listings that match at least 80% of my criteria." +
		" Include the exact listing URL and contact details for each one," +
		" and respond only in the JSON format you were given.")

	return b.String()
}
