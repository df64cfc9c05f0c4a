package models

import "time"

// Contact defaults. Listings rarely expose direct contact info, so
// these sentinels stand in for missing values.
const (
	ContactNameDefault  = "Contact for details"
	ContactValueDefault = "N/A"
)

const (
	TitleDefault       = "Rental Property"
	LocationDefault    = "Location not specified"
	DescriptionDefault = "No description available"
	SourceDefault      = "Unknown"
)

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Listing is the canonical record every provider converges to. The
// schema is total: nil pointer fields mean "unknown", every other
// field carries its documented default rather than being absent.
type Listing struct {
	Title            string    `json:"title"`
	Price            *int      `json:"price"`
	Location         string    `json:"location"`
	Bedrooms         *int      `json:"bedrooms"`
	Bathrooms        *int      `json:"bathrooms"`
	Amenities        []string  `json:"amenities"`
	Description      string    `json:"description"`
	MatchScore       int       `json:"match_score"`
	Contact          Contact   `json:"contact"`
	SourceWebsite    string    `json:"source_website"`
	ListingURL       string    `json:"listing_url"`
	AvailabilityDate string    `json:"availability_date"`
	Features         []string  `json:"features"`
	Images           []string  `json:"images"`
	Rank             int       `json:"rank"`
	CollectedAt      time.Time `json:"collected_at,omitempty"`
}

// NewListing returns a listing with every field set to its default.
func NewListing() Listing {
	return Listing{
		Title:            TitleDefault,
		Location:         LocationDefault,
		Description:      DescriptionDefault,
		SourceWebsite:    SourceDefault,
		AvailabilityDate: time.Now().Format("2006-01-02"),
		Amenities:        []string{},
		Features:         []string{},
		Images:           []string{},
		Contact: Contact{
			Name:  ContactNameDefault,
			Phone: ContactValueDefault,
			Email: ContactValueDefault,
		},
	}
}

// ClampScore forces a match score into the 0..100 band.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
