package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"trendscout/internal/db"
	"trendscout/internal/pipeline"
)

// Scheduler runs the pipeline on a fixed interval and archives keywords
// that have not been seen in any run for a while.
type Scheduler struct {
	runner       *pipeline.Runner
	db           *db.DB
	interval     time.Duration
	archiveAfter time.Duration
}

// NewScheduler creates a new scheduler.
func NewScheduler(runner *pipeline.Runner, database *db.DB, interval, archiveAfter time.Duration) *Scheduler {
	return &Scheduler{
		runner:       runner,
		db:           database,
		interval:     interval,
		archiveAfter: archiveAfter,
	}
}

// Start begins the background scrape loop. It blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("Scheduler started (interval: %v, archiveAfter: %v)", s.interval, s.archiveAfter)

	// Run immediately on start
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce runs one pipeline batch and then the archive sweep. A run already
// started through the API is not an error; the scheduled run is just skipped.
func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.runner.RunBatch(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			log.Println("Scheduler: run already in progress, skipping")
			return
		}
		log.Printf("Scheduler: run failed: %v", err)
		return
	}
	log.Printf("Scheduler: run finished (status: %s, scraped: %d, scored: %d, cached: %d)",
		summary.Status, summary.ScrapedTotal, summary.Scored, summary.Cached)

	if s.archiveAfter <= 0 {
		return
	}
	archived, err := s.db.ArchiveStaleTrends(ctx, s.archiveAfter)
	if err != nil {
		log.Printf("Scheduler: archive sweep failed: %v", err)
		return
	}
	if archived > 0 {
		log.Printf("Scheduler: archived %d stale keywords", archived)
	}
}
