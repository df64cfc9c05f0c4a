package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// GoogleResponse is the subset of the Custom Search response body the
// pipeline consumes.
type GoogleResponse struct {
	Items []GoogleItem `json:"items"`
}

// GoogleItem is one Custom Search result. PageMap carries the
// structured schema.org-style metadata some sites embed.
type GoogleItem struct {
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Link    string   `json:"link"`
	PageMap *PageMap `json:"pagemap,omitempty"`
}

type PageMap struct {
	Offer     []map[string]string `json:"offer,omitempty"`
	Product   []map[string]string `json:"product,omitempty"`
	Apartment []map[string]string `json:"apartment,omitempty"`
	Metatags  []map[string]string `json:"metatags,omitempty"`
	Event     []map[string]string `json:"event,omitempty"`
}

// First returns the first value of key in the first entry of a
// pagemap section, or "".
func First(section []map[string]string, key string) string {
	if len(section) == 0 {
		return ""
	}
	return section[0][key]
}

// ChatListing is one listing object as a chat model reports it.
// Numeric fields arrive as numbers, quoted numbers, or formatted
// strings like "$1,500/month", so they decode through FlexInt.
type ChatListing struct {
	Title            string   `json:"title"`
	Price            FlexInt  `json:"price"`
	Location         string   `json:"location"`
	Bedrooms         FlexInt  `json:"bedrooms"`
	Bathrooms        FlexInt  `json:"bathrooms"`
	Description      string   `json:"description"`
	URL              string   `json:"url"`
	Contact          *Contact `json:"contact,omitempty"`
	MatchScore       FlexInt  `json:"match_score"`
	Amenities        []string `json:"amenities,omitempty"`
	AvailabilityDate string   `json:"availability_date,omitempty"`
	Images           []string `json:"images,omitempty"`
}

// FlexInt decodes from a JSON number, a quoted number, or a string
// with currency formatting. Unparseable values decode to nil rather
// than failing the whole object.
type FlexInt struct {
	Value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		f.Value = nil
		return nil
	}
	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		s = raw
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.SplitN(s, ".", 2)[0])
	if cleaned == "" {
		f.Value = nil
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		f.Value = nil
		return nil
	}
	f.Value = &n
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// ScrapedItem is one listing card lifted off a rental site's result
// page by the browser provider.
type ScrapedItem struct {
	Title     string `json:"title"`
	PriceText string `json:"price_text"`
	URL       string `json:"url"`
	SiteID    string `json:"site_id"`
	SiteName  string `json:"site_name"`
}
