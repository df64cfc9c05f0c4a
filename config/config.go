package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Google      GoogleConfig
	OpenAI      OpenAIConfig
	Perplexity  PerplexityConfig
	Proxy       ProxyConfig
	Scheduler   SchedulerConfig
	Collector   CollectorConfig
	Snapshot    SnapshotConfig
	DBPath      string
	DatabaseURL string
	AdsPath     string
	HTTPAddr    string
	LogLevel    string
	Sites       map[string]*SiteConfig
}

type GoogleConfig struct {
	APIKey         string
	SearchEngineID string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type PerplexityConfig struct {
	APIKey string
	Model  string
}

type ProxyConfig struct {
	URL string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type CollectorConfig struct {
	Locations  []string
	MinDelayMS int
	MaxDelayMS int
	MaxBackups int
}

// SnapshotConfig enables uploading raw provider responses to
// S3-compatible storage for later inspection. Disabled unless a
// bucket is set.
type SnapshotConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// SiteConfig describes one rental site: the domain used in search
// query allow-lists, the display name shown on listings, and the
// selector cascade the browser provider runs against its result pages.
type SiteConfig struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Domain         string   `yaml:"domain"`
	SearchURL      string   `yaml:"search_url"`
	CardSelectors  []string `yaml:"card_selectors"`
	TitleSelectors []string `yaml:"title_selectors"`
	PriceSelectors []string `yaml:"price_selectors"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Google: GoogleConfig{
			APIKey:         os.Getenv("GOOGLE_API_KEY"),
			SearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Perplexity: PerplexityConfig{
			APIKey: os.Getenv("PERPLEXITY_API_KEY"),
			Model:  getEnv("PERPLEXITY_MODEL", "sonar"),
		},
		Proxy: ProxyConfig{
			URL: os.Getenv("PROXY_URL"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("COLLECT_CRON"),
		},
		Collector: CollectorConfig{
			Locations:  splitCSV(getEnv("COLLECT_LOCATIONS", "Toronto,Vancouver,New York")),
			MinDelayMS: getEnvInt("COLLECT_MIN_DELAY_MS", 2000),
			MaxDelayMS: getEnvInt("COLLECT_MAX_DELAY_MS", 7000),
			MaxBackups: getEnvInt("COLLECT_MAX_BACKUPS", 5),
		},
		Snapshot: SnapshotConfig{
			Bucket:          os.Getenv("SNAPSHOT_S3_BUCKET"),
			Region:          getEnv("SNAPSHOT_S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("SNAPSHOT_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("SNAPSHOT_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("SNAPSHOT_S3_SECRET_ACCESS_KEY"),
		},
		DBPath:      getEnv("DB_PATH", "housecrush.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AdsPath:     getEnv("HOUSE_ADS_PATH", "houseAds.txt"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Sites:       make(map[string]*SiteConfig),
	}

	if interval := os.Getenv("COLLECT_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadSiteConfigs(); err != nil {
		return nil, err
	}
	if len(cfg.Sites) == 0 {
		for _, site := range DefaultSites() {
			cfg.Sites[site.ID] = site
		}
	}

	return cfg, nil
}

func (c *Config) loadSiteConfigs() error {
	configDir := "config/sites"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var site SiteConfig
		if err := yaml.Unmarshal(data, &site); err != nil {
			return err
		}

		c.Sites[site.ID] = &site
	}

	return nil
}

// DefaultSites is the built-in allow-list of rental-listing sites,
// used when no config/sites directory is present.
func DefaultSites() []*SiteConfig {
	cards := []string{
		".placardContainer", ".property-card", ".listing-card",
		".apartment-card", ".rental-card", "[class*='listing']", "[class*='property']",
	}
	titles := []string{".property-title", ".listing-title", ".title", ".name", "h2", "h3"}
	prices := []string{".property-rent", ".listing-price", ".price", ".rent", "[class*='price']"}

	return []*SiteConfig{
		{
			ID: "apartments_com", Name: "Apartments.com", Domain: "apartments.com",
			SearchURL:     "https://www.apartments.com/%s/",
			CardSelectors: cards, TitleSelectors: titles, PriceSelectors: prices,
		},
		{
			ID: "zillow", Name: "Zillow", Domain: "zillow.com",
			SearchURL:     "https://www.zillow.com/%s/rentals/",
			CardSelectors: cards, TitleSelectors: titles, PriceSelectors: prices,
		},
		{
			ID: "padmapper", Name: "PadMapper", Domain: "padmapper.com",
			SearchURL:     "https://www.padmapper.com/apartments/%s",
			CardSelectors: cards, TitleSelectors: titles, PriceSelectors: prices,
		},
		{
			ID: "kijiji", Name: "Kijiji", Domain: "kijiji.ca",
			SearchURL:     "https://www.kijiji.ca/b-apartments-condos/%s/c37l1700273",
			CardSelectors: append([]string{".search-item"}, cards...),
			TitleSelectors: titles, PriceSelectors: prices,
		},
	}
}

// QueryDomains returns the site: filter allow-list in a stable order.
func (c *Config) QueryDomains() []string {
	ordered := []string{"apartments_com", "zillow", "padmapper", "kijiji"}
	seen := make(map[string]bool)
	var domains []string
	for _, id := range ordered {
		if site, ok := c.Sites[id]; ok && !seen[site.Domain] {
			domains = append(domains, site.Domain)
			seen[site.Domain] = true
		}
	}
	for _, site := range c.Sites {
		if !seen[site.Domain] {
			domains = append(domains, site.Domain)
			seen[site.Domain] = true
		}
	}
	return domains
}

// DomainNames maps listing hosts to human-readable site names.
func (c *Config) DomainNames() map[string]string {
	names := make(map[string]string, len(c.Sites))
	for _, site := range c.Sites {
		names[site.Domain] = site.Name
	}
	return names
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
