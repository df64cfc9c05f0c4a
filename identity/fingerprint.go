package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"house_crush/models"
)

var (
	locationReplacements = map[string]string{
		"street":    "st",
		"avenue":    "ave",
		"drive":     "dr",
		"road":      "rd",
		"boulevard": "blvd",
		"lane":      "ln",
		"court":     "ct",
		"place":     "pl",
		"north":     "n",
		"south":     "s",
		"east":      "e",
		"west":      "w",
		"apartment": "apt",
		"suite":     "ste",
		"unit":      "unit",
	}
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Fingerprint derives a stable dedupe key for a listing. The URL is
// deliberately excluded: the same unit shows up under different
// tracking URLs across collection passes.
func Fingerprint(listing *models.Listing) string {
	price := 0
	if listing.Price != nil {
		price = *listing.Price
	}
	input := fmt.Sprintf("%s|%d|%s",
		Normalize(listing.Title),
		price,
		Normalize(listing.Location),
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}

// Normalize lowercases, strips punctuation, and abbreviates common
// address words so near-identical titles and locations collide.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRegex.ReplaceAllString(s, " ")
	for full, abbrev := range locationReplacements {
		s = strings.ReplaceAll(s, full, abbrev)
	}
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
