package extract

import (
	"net/url"
	"sort"
	"strings"

	"house_crush/models"
)

// ByScore orders listings descending by match score. The sort is
// stable so equal scores keep their provider order, which keeps
// output deterministic.
func ByScore(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].MatchScore > listings[j].MatchScore
	})
}

// PostFilter drops listings that violate the hard price and bedroom
// bounds. A listing with no extracted price fails a price bound, and
// one with no bedroom count fails a bedroom requirement: unknown is
// not a pass.
func PostFilter(listings []models.Listing, filters models.SearchFilters) []models.Listing {
	out := listings[:0:0]
	for _, l := range listings {
		if filters.MinPrice != nil {
			if l.Price == nil || *l.Price < *filters.MinPrice {
				continue
			}
		}
		if filters.MaxPrice != nil {
			if l.Price == nil || *l.Price > *filters.MaxPrice {
				continue
			}
		}
		if filters.Bedrooms != nil {
			if l.Bedrooms == nil || *l.Bedrooms < *filters.Bedrooms {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// RankPreferred pulls listings on the preferred domain to the front,
// then applies the declared-score ordering within each partition.
func RankPreferred(listings []models.Listing, domain string) []models.Listing {
	if domain == "" {
		ByScore(listings)
		return listings
	}
	preferred := make([]models.Listing, 0, len(listings))
	rest := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if hostMatches(l.ListingURL, domain) {
			preferred = append(preferred, l)
		} else {
			rest = append(rest, l)
		}
	}
	ByScore(preferred)
	ByScore(rest)
	return append(preferred, rest...)
}

func hostMatches(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host == domain || strings.HasSuffix(host, "."+domain)
}
