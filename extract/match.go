package extract

import (
	"strings"

	"house_crush/models"
)

// Rubric weights. Additive, capped at 100.
const (
	scoreLocation     = 30
	scorePrice        = 25
	scorePropertyType = 20
	scoreBedBath      = 15
	scoreAvailability = 10
)

var propertyTypeKeywords = []string{
	"apartment", "house", "condo", "studio", "townhouse", "loft", "suite",
}

var availabilityKeywords = []string{
	"available", "availability", "immediate", "move-in", "move in", "vacancy",
}

// Score rates how well a result's visible text matches the filters.
// This is a keyword-presence heuristic, not a semantic comparison.
func Score(title, snippet string, filters models.SearchFilters) int {
	text := strings.ToLower(title + " " + snippet)
	score := 0

	if loc := strings.ToLower(strings.TrimSpace(filters.Location)); loc != "" && strings.Contains(text, loc) {
		score += scoreLocation
	}

	if strings.Contains(text, "$") || strings.Contains(text, "rent") || strings.Contains(text, "price") || strings.Contains(text, "/month") {
		score += scorePrice
	}

	for _, kw := range propertyTypeKeywords {
		if strings.Contains(text, kw) {
			score += scorePropertyType
			break
		}
	}

	if strings.Contains(text, "bed") || strings.Contains(text, "bath") {
		score += scoreBedBath
	}

	for _, kw := range availabilityKeywords {
		if strings.Contains(text, kw) {
			score += scoreAvailability
			break
		}
	}

	return models.ClampScore(score)
}
