package extract

import (
	"net/url"
	"strings"

	"house_crush/models"
)

// Built-in host → display-name table. Site configs can extend it;
// unknown hosts pass through as the bare host.
var defaultDomainNames = map[string]string{
	"apartments.com":      "Apartments.com",
	"zillow.com":          "Zillow",
	"kijiji.ca":           "Kijiji",
	"padmapper.com":       "PadMapper",
	"rent.com":            "Rent.com",
	"apartmentfinder.com": "Apartment Finder",
	"rentals.com":         "Rentals.com",
}

// Normalize maps a Partial onto the total canonical schema. Pure:
// missing fields become their documented defaults, nothing errors.
// rank is the 1-based position in the provider's result order.
func Normalize(p Partial, rank int, domainNames map[string]string) models.Listing {
	listing := models.NewListing()
	listing.Rank = rank

	if title := strings.TrimSpace(p.Title); title != "" {
		listing.Title = title
	}
	if loc := strings.TrimSpace(p.Location); loc != "" {
		listing.Location = loc
	}
	if desc := strings.TrimSpace(p.Description); desc != "" {
		listing.Description = desc
	}
	listing.Price = p.Price
	listing.Bedrooms = p.Bedrooms
	listing.Bathrooms = p.Bathrooms
	if len(p.Amenities) > 0 {
		listing.Amenities = p.Amenities
	}
	if len(p.Images) > 0 {
		listing.Images = p.Images
	}
	if p.Contact != nil {
		listing.Contact = *p.Contact
		if listing.Contact.Name == "" {
			listing.Contact.Name = models.ContactNameDefault
		}
		if listing.Contact.Phone == "" {
			listing.Contact.Phone = models.ContactValueDefault
		}
		if listing.Contact.Email == "" {
			listing.Contact.Email = models.ContactValueDefault
		}
	}
	listing.ListingURL = p.URL
	if p.AvailabilityDate != "" {
		listing.AvailabilityDate = p.AvailabilityDate
	}
	if p.MatchScore != nil {
		listing.MatchScore = models.ClampScore(*p.MatchScore)
	}

	switch {
	case p.SourceSite != "":
		listing.SourceWebsite = p.SourceSite
	case p.URL != "":
		listing.SourceWebsite = SiteName(p.URL, domainNames)
	}

	return listing
}

// SiteName resolves a listing URL's host to a display name. Overrides
// win over the built-in table; unknown hosts come back as the host
// itself with any www. prefix stripped.
func SiteName(rawURL string, overrides map[string]string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return models.SourceDefault
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if name, ok := overrides[host]; ok {
		return name
	}
	if name, ok := defaultDomainNames[host]; ok {
		return name
	}
	return host
}
