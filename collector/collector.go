package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"house_crush/identity"
	"house_crush/models"
	"house_crush/providers"
	"house_crush/storage"
)

// Collector runs one provider over a list of locations and rewrites
// the ads file with the deduplicated result. Runs are recorded in
// SQLite; listings optionally land in the Postgres archive too.
type Collector struct {
	provider providers.Provider
	ads      *storage.AdsFile
	store    *storage.SQLiteStore
	archive  *storage.PostgresStore
}

func New(provider providers.Provider, ads *storage.AdsFile, store *storage.SQLiteStore, archive *storage.PostgresStore) *Collector {
	return &Collector{
		provider: provider,
		ads:      ads,
		store:    store,
		archive:  archive,
	}
}

// Collect gathers listings for every location and replaces the ads
// file. A location that fails is logged and skipped; Collect only
// errors when nothing could be collected at all or the file write
// fails.
func (c *Collector) Collect(ctx context.Context, locations []string) (int, error) {
	seen := make(map[string]bool)
	var collected []models.Listing
	failures := 0

	for _, location := range locations {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		runID := c.startRun(ctx, location)
		listings, err := c.provider.Search(ctx, models.SearchFilters{Location: location})
		if err != nil {
			failures++
			log.Printf("collector: %s: %v", location, err)
			c.log(ctx, runID, models.LogLevelError, fmt.Sprintf("collect %s: %v", location, err))
			c.finishRun(ctx, runID, models.RunStatusFailed, 0, 0)
			continue
		}

		kept := 0
		now := time.Now()
		for _, l := range listings {
			fp := identity.Fingerprint(&l)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			l.CollectedAt = now
			collected = append(collected, l)
			kept++
		}
		log.Printf("collector: %s: %d listings, %d kept after dedupe", location, len(listings), kept)
		c.finishRun(ctx, runID, models.RunStatusCompleted, len(listings), kept)
	}

	if len(collected) == 0 && failures == len(locations) {
		return 0, fmt.Errorf("all %d locations failed", failures)
	}

	if err := c.ads.Write(collected); err != nil {
		return 0, fmt.Errorf("write ads file: %w", err)
	}
	log.Printf("collector: wrote %d listings to %s", len(collected), c.ads.Path())

	if c.archive != nil && len(collected) > 0 {
		if err := c.archive.SaveListings(ctx, collected); err != nil {
			log.Printf("collector: archive: %v", err)
		}
	}

	return len(collected), nil
}

func (c *Collector) startRun(ctx context.Context, location string) *int64 {
	if c.store == nil {
		return nil
	}
	run := &models.CollectRun{
		Provider:  c.provider.ID(),
		Location:  location,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	id, err := c.store.CreateRun(ctx, run)
	if err != nil {
		log.Printf("collector: create run: %v", err)
		return nil
	}
	return &id
}

func (c *Collector) finishRun(ctx context.Context, runID *int64, status models.RunStatus, found, kept int) {
	if c.store == nil || runID == nil {
		return
	}
	if err := c.store.FinishRun(ctx, *runID, status, found, kept); err != nil {
		log.Printf("collector: finish run: %v", err)
	}
}

func (c *Collector) log(ctx context.Context, runID *int64, level models.LogLevel, msg string) {
	if c.store == nil {
		return
	}
	entry := &models.RunLog{
		RunID:    runID,
		Level:    level,
		Message:  msg,
		Provider: c.provider.ID(),
	}
	if err := c.store.AddLog(ctx, entry); err != nil {
		log.Printf("collector: add log: %v", err)
	}
}
