package providers

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"house_crush/config"
	"house_crush/extract"
	"house_crush/models"
	"house_crush/query"
)

const (
	browserNavTimeout = 30000 // ms
	maxCardsPerSite   = 10
	browserUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// BrowserProvider drives a headless browser across the configured
// rental sites and lifts listing cards off each result page. One
// browser context per call, navigations are sequential, and a random
// politeness delay separates them. No retries: a site that fails is
// skipped once.
type BrowserProvider struct {
	sites       []*config.SiteConfig
	domainNames map[string]string
	minDelay    time.Duration
	maxDelay    time.Duration
}

func NewBrowserProvider(cfg *config.Config) *BrowserProvider {
	sites := make([]*config.SiteConfig, 0, len(cfg.Sites))
	for _, id := range []string{"apartments_com", "zillow", "padmapper", "kijiji"} {
		if site, ok := cfg.Sites[id]; ok && site.SearchURL != "" {
			sites = append(sites, site)
		}
	}
	for _, site := range cfg.Sites {
		if site.SearchURL == "" {
			continue
		}
		known := false
		for _, s := range sites {
			if s.ID == site.ID {
				known = true
				break
			}
		}
		if !known {
			sites = append(sites, site)
		}
	}

	return &BrowserProvider{
		sites:       sites,
		domainNames: cfg.DomainNames(),
		minDelay:    time.Duration(cfg.Collector.MinDelayMS) * time.Millisecond,
		maxDelay:    time.Duration(cfg.Collector.MaxDelayMS) * time.Millisecond,
	}
}

func (p *BrowserProvider) ID() string { return "browser" }

func (p *BrowserProvider) Status() models.ProviderStatus {
	return models.ProviderStatus{
		Name:       "browser",
		Configured: len(p.sites) > 0,
	}
}

func (p *BrowserProvider) Search(ctx context.Context, filters models.SearchFilters) ([]models.Listing, error) {
	if !query.ValidCity(filters.Location) {
		return nil, ErrInvalidLocation
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(browserUserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	defer browserCtx.Close()

	var items []models.ScrapedItem
	for i, site := range p.sites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			p.politenessDelay()
		}

		siteItems, err := p.scrapeSite(browserCtx, site, filters.Location)
		if err != nil {
			log.Printf("browser: %s failed: %v", site.ID, err)
			continue
		}
		log.Printf("browser: %s: %d cards", site.ID, len(siteItems))
		items = append(items, siteItems...)
	}

	return p.toListings(items, filters), nil
}

func (p *BrowserProvider) scrapeSite(browserCtx playwright.BrowserContext, site *config.SiteConfig, location string) ([]models.ScrapedItem, error) {
	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	searchURL := fmt.Sprintf(site.SearchURL, locationSlug(location))
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(browserNavTimeout),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		// Heavy pages never reach network-idle; parse whatever loaded.
		log.Printf("browser: %s navigation: %v", site.ID, err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}

	return ParseResultsPage(html, site, searchURL)
}

// ParseResultsPage lifts listing cards out of a result page using the
// site's selector cascade: the first card selector that matches
// anything wins, then title and price cascade per card.
func ParseResultsPage(html string, site *config.SiteConfig, pageURL string) ([]models.ScrapedItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, _ := url.Parse(pageURL)

	var cards *goquery.Selection
	for _, selector := range site.CardSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			cards = sel
			break
		}
	}
	if cards == nil {
		return nil, nil
	}

	var items []models.ScrapedItem
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := firstText(card, site.TitleSelectors)
		if title == "" {
			return true
		}

		item := models.ScrapedItem{
			Title:     title,
			PriceText: firstText(card, site.PriceSelectors),
			SiteID:    site.ID,
			SiteName:  site.Name,
		}

		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			item.URL = absoluteURL(base, href)
		}

		items = append(items, item)
		return len(items) < maxCardsPerSite
	})

	return items, nil
}

func (p *BrowserProvider) toListings(items []models.ScrapedItem, filters models.SearchFilters) []models.Listing {
	var listings []models.Listing
	for _, item := range items {
		if !extract.IsRealListing(item.Title, item.PriceText) {
			continue
		}
		partial := extract.FromScraped(item)
		score := extract.Score(item.Title, item.PriceText, filters)
		partial.MatchScore = &score
		partial.Location = filters.Location
		listings = append(listings, extract.Normalize(partial, len(listings)+1, p.domainNames))
	}
	return listings
}

func (p *BrowserProvider) politenessDelay() {
	delay := p.minDelay
	if p.maxDelay > p.minDelay {
		delay += time.Duration(rand.Int63n(int64(p.maxDelay - p.minDelay)))
	}
	time.Sleep(delay)
}

func firstText(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if found := sel.Find(selector).First(); found.Length() > 0 {
			if text := strings.TrimSpace(found.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func locationSlug(location string) string {
	slug := strings.ToLower(strings.TrimSpace(location))
	slug = strings.Join(strings.Fields(slug), "-")
	return url.PathEscape(slug)
}
