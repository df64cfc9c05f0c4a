package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"house_crush/collector"
	"house_crush/config"
	"house_crush/httputil"
	"house_crush/logging"
	"house_crush/models"
	"house_crush/providers"
	"house_crush/scheduler"
	"house_crush/services"
	"house_crush/storage"
	"house_crush/web"
)

var (
	collectNow      = flag.Bool("collect", false, "Run one collection pass and exit")
	collectProvider = flag.String("collect-provider", "browser", "Provider used for collection (browser, google)")
	searchNow       = flag.String("search", "", "Run one search for the given location and exit")
	searchProvider  = flag.String("search-provider", "google", "Provider used for -search")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("housecrush.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting house_crush...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d site configs", len(cfg.Sites))
	for id, site := range cfg.Sites {
		log.Printf("  - %s (%s)", site.Name, id)
	}

	clients := httputil.NewClients(&cfg.Proxy)

	ctx := context.Background()

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var archive *storage.PostgresStore
	if cfg.DatabaseURL != "" {
		archive, err = storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer archive.Close()
		log.Printf("Connected to listings archive: %s", maskConnectionString(cfg.DatabaseURL))
	}

	snap, err := storage.NewSnapshotUploader(ctx, cfg.Snapshot)
	if err != nil {
		log.Fatalf("Failed to set up snapshot uploads: %v", err)
	}
	if snap != nil {
		log.Printf("Snapshot uploads enabled: %s", cfg.Snapshot.Bucket)
	}

	registry := providers.All(cfg, clients, snap)
	searchService := services.NewSearchService(registry, sqliteStore, archive)

	ads := storage.NewAdsFile(cfg.AdsPath, cfg.Collector.MaxBackups)

	// One-shot modes.
	if *collectNow {
		runCollect(ctx, cfg, registry, ads, sqliteStore, archive)
		return
	}
	if *searchNow != "" {
		runSearch(ctx, searchService, *searchProvider, *searchNow)
		return
	}

	// Daemon mode: scheduled collection plus the HTTP API.
	collProvider, ok := registry[*collectProvider]
	if !ok {
		log.Fatalf("Unknown collect provider: %s", *collectProvider)
	}
	coll := collector.New(collProvider, ads, sqliteStore, archive)

	sched := scheduler.New(cfg, coll)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	qaService, err := services.NewQAService(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to set up Q&A service: %v", err)
	}

	server := web.NewServer(cfg.HTTPAddr, searchService, qaService, sqliteStore, archive, sched)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	if err := server.Stop(context.Background()); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	log.Println("Goodbye!")
}

func runCollect(ctx context.Context, cfg *config.Config, registry map[string]providers.Provider, ads *storage.AdsFile, store *storage.SQLiteStore, archive *storage.PostgresStore) {
	provider, ok := registry[*collectProvider]
	if !ok {
		log.Fatalf("Unknown collect provider: %s", *collectProvider)
	}

	log.Printf("Collecting with %s for: %s", provider.ID(), strings.Join(cfg.Collector.Locations, ", "))
	coll := collector.New(provider, ads, store, archive)
	count, err := coll.Collect(ctx, cfg.Collector.Locations)
	if err != nil {
		log.Fatalf("Collection failed: %v", err)
	}
	log.Printf("Collection complete: %d listings written to %s", count, cfg.AdsPath)
}

func runSearch(ctx context.Context, search *services.SearchService, providerName, location string) {
	result := search.Search(ctx, providerName, models.SearchFilters{Location: location})
	if result.Message != "" {
		log.Printf("Note: %s", result.Message)
	}
	for _, l := range result.Listings {
		price := "n/a"
		if l.Price != nil {
			price = fmt.Sprintf("$%d", *l.Price)
		}
		log.Printf("%2d. [%3d%%] %s | %s (%s) %s", l.Rank, l.MatchScore, l.Title, price, l.SourceWebsite, l.ListingURL)
	}
	log.Printf("%d listings for %q via %s", result.Count, location, providerName)
}

// maskConnectionString masks the password in a connection string for logging.
func maskConnectionString(connStr string) string {
	start := strings.Index(connStr, "://")
	if start < 0 {
		return connStr
	}
	rest := connStr[start+3:]
	at := strings.Index(rest, "@")
	if at < 0 {
		return connStr
	}
	colon := strings.Index(rest[:at], ":")
	if colon < 0 {
		return connStr
	}
	return connStr[:start+3] + rest[:colon+1] + "****" + rest[at:]
}
