package extract

import (
	"regexp"
	"strconv"
	"strings"

	"house_crush/models"
)

// Plausible monthly-rent band. Prices outside it are treated as
// noise (listing IDs, square footage, deposit totals).
const (
	minPlausiblePrice = 500
	maxPlausiblePrice = 10000
)

// Partial holds everything the extractor could pull out of one raw
// item. Nil pointers mean "not found"; Normalize fills the defaults.
type Partial struct {
	Title            string
	Snippet          string
	Location         string
	Price            *int
	Bedrooms         *int
	Bathrooms        *int
	Amenities        []string
	Contact          *models.Contact
	URL              string
	Images           []string
	Description      string
	MatchScore       *int
	AvailabilityDate string
	SourceSite       string
}

var (
	priceRegex = regexp.MustCompile(`\$([0-9][0-9,]*)(?:\s*/\s*mo(?:nth)?)?`)

	pairedBedBathRegex = regexp.MustCompile(`(\d+)\s*bed(?:room)?s?\s*[,/\s]+\s*(\d+)(?:\.\d+)?\s*bath`)
	bedroomRegex       = regexp.MustCompile(`(\d+)\s*\+?\s*(?:bedroom|bed|br)s?\b`)
	bathroomRegex      = regexp.MustCompile(`(\d+)(?:\.\d+)?\s*\+?\s*(?:bathroom|bath|ba)s?\b`)

	phoneRegex = regexp.MustCompile(`\(?(\d{3})\)?[\s.-]?(\d{3})[\s.-]?(\d{4})`)
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// Amenity vocabulary; hits are title-cased and capped at 5.
var amenityVocabulary = []string{
	"parking", "gym", "pool", "laundry", "dishwasher", "balcony",
	"pet friendly", "pets allowed", "air conditioning", "heating",
	"furnished", "elevator", "concierge", "storage", "utilities included",
}

// FromGoogle extracts fields from one Custom Search result.
// Structured pagemap metadata wins over regex on the visible text.
func FromGoogle(item models.GoogleItem) Partial {
	text := strings.ToLower(item.Title + " " + item.Snippet)

	p := Partial{
		Title:       item.Title,
		Snippet:     item.Snippet,
		Description: item.Snippet,
		URL:         item.Link,
		Amenities:   Amenities(text),
		Contact:     Contact(item.Title + " " + item.Snippet),
	}

	if pm := item.PageMap; pm != nil {
		if raw := models.First(pm.Offer, "price"); raw != "" {
			p.Price = parsePlausiblePrice(raw)
		}
		if p.Price == nil {
			if raw := models.First(pm.Product, "price"); raw != "" {
				p.Price = parsePlausiblePrice(raw)
			}
		}
		if raw := models.First(pm.Apartment, "numberofbedrooms"); raw != "" {
			p.Bedrooms = parseBoundedInt(raw, 1, 10)
		}
		if raw := models.First(pm.Apartment, "numberofbathrooms"); raw != "" {
			p.Bathrooms = parseBoundedInt(raw, 1, 10)
		}
		// Category-page links are common; the structured URL points
		// at the listing itself.
		for _, candidate := range []string{
			models.First(pm.Offer, "url"),
			models.First(pm.Metatags, "og:url"),
			models.First(pm.Event, "url"),
		} {
			if candidate != "" {
				p.URL = candidate
				break
			}
		}
	}

	if p.Price == nil {
		p.Price = Price(text)
	}
	if p.Bedrooms == nil {
		p.Bedrooms = Bedrooms(text)
	}
	if p.Bathrooms == nil {
		p.Bathrooms = Bathrooms(text)
	}

	return p
}

// FromChat extracts fields from one listing object a chat model
// reported. The model's own numbers are taken as-is where present,
// with regex over the description filling the gaps.
func FromChat(item models.ChatListing) Partial {
	text := strings.ToLower(item.Title + " " + item.Description)

	p := Partial{
		Title:            item.Title,
		Snippet:          item.Description,
		Description:      item.Description,
		Location:         item.Location,
		URL:              item.URL,
		Price:            item.Price.Value,
		Bedrooms:         item.Bedrooms.Value,
		Bathrooms:        item.Bathrooms.Value,
		MatchScore:       item.MatchScore.Value,
		AvailabilityDate: item.AvailabilityDate,
		Images:           item.Images,
		Contact:          item.Contact,
	}

	if p.Price != nil && (*p.Price < minPlausiblePrice || *p.Price > maxPlausiblePrice) {
		p.Price = nil
	}
	if p.Price == nil {
		p.Price = Price(text)
	}
	if p.Bedrooms == nil {
		p.Bedrooms = Bedrooms(text)
	}
	if p.Bathrooms == nil {
		p.Bathrooms = Bathrooms(text)
	}
	if len(item.Amenities) > 0 {
		p.Amenities = capAmenities(item.Amenities)
	} else {
		p.Amenities = Amenities(text)
	}
	if p.Contact == nil {
		p.Contact = Contact(item.Title + " " + item.Description)
	}

	return p
}

// FromScraped extracts fields from one card the browser provider
// lifted off a result page. Only title, price text, and URL exist.
func FromScraped(item models.ScrapedItem) Partial {
	text := strings.ToLower(item.Title + " " + item.PriceText)

	return Partial{
		Title:      item.Title,
		Snippet:    item.PriceText,
		URL:        item.URL,
		SourceSite: item.SiteName,
		Price:      Price(text),
		Bedrooms:   Bedrooms(text),
		Bathrooms:  Bathrooms(text),
		Amenities:  Amenities(text),
	}
}

// Price finds the first dollar amount in the plausible monthly-rent
// band. Amounts outside the band are skipped, not rejected outright,
// so "$239,000 or rent at $1,800" still yields 1800.
func Price(text string) *int {
	for _, match := range priceRegex.FindAllStringSubmatch(text, -1) {
		if price := parsePlausiblePrice(match[1]); price != nil {
			return price
		}
	}
	return nil
}

// Bedrooms parses a bedroom count from free text. The paired
// "N bed/M bath" shorthand is tried first; a bare "N+" only counts
// when a bedroom keyword follows it.
func Bedrooms(text string) *int {
	if match := pairedBedBathRegex.FindStringSubmatch(text); match != nil {
		return parseBoundedInt(match[1], 1, 10)
	}
	if match := bedroomRegex.FindStringSubmatch(text); match != nil {
		return parseBoundedInt(match[1], 1, 10)
	}
	return nil
}

// Bathrooms parses a bathroom count, paired shorthand first.
func Bathrooms(text string) *int {
	if match := pairedBedBathRegex.FindStringSubmatch(text); match != nil {
		return parseBoundedInt(match[2], 1, 10)
	}
	if match := bathroomRegex.FindStringSubmatch(text); match != nil {
		return parseBoundedInt(match[1], 1, 10)
	}
	return nil
}

// Amenities returns vocabulary hits found in text, title-cased,
// capped at 5.
func Amenities(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, amenity := range amenityVocabulary {
		if strings.Contains(lower, amenity) {
			found = append(found, titleCase(amenity))
			if len(found) == 5 {
				break
			}
		}
	}
	return found
}

// Contact pulls a phone number and email address out of text. Returns
// nil when neither is present.
func Contact(text string) *models.Contact {
	var phone, email string
	if match := phoneRegex.FindStringSubmatch(text); match != nil {
		phone = "(" + match[1] + ") " + match[2] + "-" + match[3]
	}
	if match := emailRegex.FindString(text); match != "" {
		email = match
	}
	if phone == "" && email == "" {
		return nil
	}

	c := &models.Contact{
		Name:  models.ContactNameDefault,
		Phone: models.ContactValueDefault,
		Email: models.ContactValueDefault,
	}
	if phone != "" {
		c.Phone = phone
	}
	if email != "" {
		c.Email = email
	}
	return c
}

func parsePlausiblePrice(raw string) *int {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(raw)
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i]
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil || n < minPlausiblePrice || n > maxPlausiblePrice {
		return nil
	}
	return &n
}

func parseBoundedInt(raw string, min, max int) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < min || n > max {
		return nil
	}
	return &n
}

func capAmenities(amenities []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, titleCase(a))
		if len(out) == 5 {
			break
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
