package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"house_crush/collector"
	"house_crush/config"
)

// Scheduler runs the collector on a cron expression or a fixed
// interval. Cron wins when both are configured.
type Scheduler struct {
	cfg    *config.Config
	coll   *collector.Collector
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
}

func New(cfg *config.Config, coll *collector.Collector) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		coll:   coll,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			s.runOnce(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runOnce(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}

	log.Println("No schedule configured, collection runs only on demand")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// TriggerNow runs one collection pass immediately.
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	_, err := s.coll.Collect(ctx, s.cfg.Collector.Locations)
	return err
}

func (s *Scheduler) runOnce(ctx context.Context) {
	count, err := s.coll.Collect(ctx, s.cfg.Collector.Locations)
	if err != nil {
		log.Printf("Scheduled collection error: %v", err)
		return
	}
	log.Printf("Scheduled collection complete: %d listings", count)
}
