package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"trendscout/internal/db"
	"trendscout/internal/metrics"
	"trendscout/internal/models"
)

// ErrRunInProgress is returned when a second pipeline run is requested
// while one is active. Runs are mutually exclusive within a process;
// across instances upserts are last-writer-wins by keyword.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// Store is the repository contract the pipeline depends on. Implemented by
// internal/db; tests substitute fakes. Each call is atomic on its own, no
// transaction spans multiple keywords.
type Store interface {
	GetTrendByKeyword(ctx context.Context, keyword string) (*models.Trend, error)
	UpsertTrend(ctx context.Context, t *models.Trend) error
}

// Scorer is the Stage-A fast classifier.
type Scorer interface {
	Score(ctx context.Context, keyword string) (*models.ScoreResult, error)
}

// Analyzer is the Stage-B deep-analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, keyword string, score int, productSuggestions []string) (*models.Analysis, error)
}

// RunnerConfig bounds per-run external spend.
type RunnerConfig struct {
	ScoreCap       int     // max keywords sent to Stage A per run
	AnalysisCap    int     // max keywords sent to Stage B per run
	ScoringCost    float64 // per-call estimate, 0 for the free tier
	AnalysisCost   float64 // per-call estimate
	TopTrendsLimit int     // entries in the batch summary
}

// DefaultRunnerConfig mirrors the production spend budget.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		ScoreCap:       20,
		AnalysisCap:    5,
		ScoringCost:    0,
		AnalysisCost:   0.003,
		TopTrendsLimit: 10,
	}
}

// Runner drives one pipeline invocation: source fan-out, blacklist filter,
// temporal tagging, the cache gate, staged classification, and persistence,
// with progress streamed throughout.
type Runner struct {
	aggregator *Aggregator
	blacklist  *Blacklist
	policy     CachePolicy
	store      Store
	scorer     Scorer
	analyzer   Analyzer
	cfg        RunnerConfig
	now        func() time.Time

	mu sync.Mutex
}

// NewRunner wires a pipeline runner. All collaborators are injected; there
// is no hidden client state.
func NewRunner(agg *Aggregator, bl *Blacklist, store Store, scorer Scorer, analyzer Analyzer, cfg RunnerConfig) *Runner {
	if cfg.ScoreCap <= 0 {
		cfg.ScoreCap = DefaultRunnerConfig().ScoreCap
	}
	if cfg.AnalysisCap <= 0 {
		cfg.AnalysisCap = DefaultRunnerConfig().AnalysisCap
	}
	if cfg.TopTrendsLimit <= 0 {
		cfg.TopTrendsLimit = DefaultRunnerConfig().TopTrendsLimit
	}
	return &Runner{
		aggregator: agg,
		blacklist:  bl,
		store:      store,
		scorer:     scorer,
		analyzer:   analyzer,
		cfg:        cfg,
		now:        time.Now,
	}
}

// RunBatch runs the full pipeline synchronously, discarding progress
// events, and returns the run summary. Intended for cron-style callers.
func (r *Runner) RunBatch(ctx context.Context) (*models.RunSummary, error) {
	progress := NewProgressEmitter()
	go func() {
		for range progress.Events() {
		}
	}()
	return r.Run(ctx, progress)
}

// Run executes the pipeline, emitting ordered progress events on the given
// emitter. It always returns a summary describing what happened; the only
// error is ErrRunInProgress. Cancellation of ctx is honored cooperatively
// before each deep-analysis call; committed writes stay intact.
func (r *Runner) Run(ctx context.Context, progress *ProgressEmitter) (*models.RunSummary, error) {
	if !r.mu.TryLock() {
		progress.Fail("a pipeline run is already in progress")
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	start := r.now()
	summary := &models.RunSummary{Status: "ok", RunAt: start}
	finish := func(outcome string) {
		summary.DurationSeconds = r.now().Sub(start).Seconds()
		metrics.RecordRun(outcome)
	}

	progress.Progress("Started scraping trends...", 5)
	progress.Progress("Fetching from sources...", 10)

	candidates := r.aggregator.Fetch(ctx)
	summary.ScrapedTotal = len(candidates)

	progress.Progress("Aggregating and deduplicating keywords...", 30)

	clean, blocked := r.blacklist.FilterBatch(candidates)
	summary.Blocked = len(blocked)
	for _, b := range blocked {
		log.Printf("[pipeline] blocked %q: %s", b.Keyword, b.Reason)
	}
	metrics.RecordBlocked(len(blocked))

	if len(clean) == 0 {
		log.Println("[pipeline] no keywords returned from sources")
		progress.Complete("No keywords fetched.")
		finish("empty")
		return summary, nil
	}

	if len(clean) > r.cfg.ScoreCap {
		clean = clean[:r.cfg.ScoreCap]
	}
	progress.Progress(fmt.Sprintf("Scoring %d keywords...", len(clean)), 40)

	var runCost float64
	var scoredThisRun []*models.Trend
	var analysisQueue []*models.Trend

	for i, c := range clean {
		now := r.now()

		trend, err := r.store.GetTrendByKeyword(ctx, c.Term)
		switch {
		case errors.Is(err, db.ErrTrendNotFound):
			trend = &models.Trend{
				Keyword:   c.Term,
				Source:    c.Source,
				CreatedAt: now,
			}
			summary.NewKeywords++
		case err != nil:
			return r.fatal(progress, summary, finish, fmt.Errorf("lookup %q: %w", c.Term, err))
		}

		trend.RecordSighting(c.AvgInterest, c.InterestPeak, c.TrendDirection, now)

		// Temporal context is refreshed every sighting; the display
		// category sticks once assigned.
		trend.TemporalTags = DetectTemporalTags(trend.Keyword, now, trend.ScrapeCount)
		urgency := DetectUrgency(trend.TemporalTags, derefInt(trend.AvgInterest), derefString(trend.TrendVelocity), now)
		trend.Urgency = &urgency
		if trend.EmojiTag == nil || *trend.EmojiTag == "" {
			tag := AssignCategory(trend.Keyword, trend.TemporalTags)
			trend.EmojiTag = &tag
		}
		if trend.ValidationStatus == nil {
			status := models.ValidationUntested
			trend.ValidationStatus = &status
		}

		if !r.policy.ShouldRescore(trend, now) {
			summary.Cached++
			if err := r.store.UpsertTrend(ctx, trend); err != nil {
				return r.fatal(progress, summary, finish, fmt.Errorf("upsert %q: %w", trend.Keyword, err))
			}
			continue
		}

		prog := 40 + (i*30)/len(clean)
		res, err := r.scorer.Score(ctx, trend.Keyword)
		if err != nil {
			// Both classifiers failed; keep the prior score state and
			// persist only the sighting. The cache policy retries it
			// next run.
			log.Printf("[pipeline] scoring failed for %q: %v", trend.Keyword, err)
			progress.Progress(fmt.Sprintf("Scoring failed for '%s', skipped", trend.Keyword), prog)
			if err := r.store.UpsertTrend(ctx, trend); err != nil {
				return r.fatal(progress, summary, finish, fmt.Errorf("upsert %q: %w", trend.Keyword, err))
			}
			continue
		}

		trend.ApplyScore(res, r.cfg.ScoringCost, r.now())
		runCost += r.cfg.ScoringCost
		summary.Scored++
		scoredThisRun = append(scoredThisRun, trend)

		if err := r.store.UpsertTrend(ctx, trend); err != nil {
			return r.fatal(progress, summary, finish, fmt.Errorf("upsert %q: %w", trend.Keyword, err))
		}

		if r.policy.ShouldDeepAnalyze(trend, now) && len(analysisQueue) < r.cfg.AnalysisCap {
			analysisQueue = append(analysisQueue, trend)
		}

		progress.Progress(fmt.Sprintf("Scored '%s' [%s]", trend.Keyword, res.ModelUsed), prog)
	}

	metrics.RecordScored(summary.Scored)
	metrics.RecordCached(summary.Cached)
	progress.Progress("Saving scores to database...", 70)

	if len(analysisQueue) > 0 {
		progress.Progress("Deep analyzing top trends...", 85)
	}

	for _, trend := range analysisQueue {
		// The only cancellation point: poll for a gone consumer before
		// each expensive analysis call. Committed writes stay intact.
		select {
		case <-ctx.Done():
			log.Println("[pipeline] client disconnected, stopping")
			summary.Status = "cancelled"
			progress.Complete("Cancelled")
			finish("cancelled")
			return summary, nil
		default:
		}

		log.Printf("[pipeline] deep analyzing %q", trend.Keyword)
		analysis, err := r.analyzer.Analyze(ctx, trend.Keyword, *trend.Score, trend.ProductSuggestions)
		if err != nil {
			log.Printf("[pipeline] analysis failed for %q: %v", trend.Keyword, err)
			continue
		}

		trend.ApplyAnalysis(analysis, r.cfg.AnalysisCost, r.now())
		runCost += r.cfg.AnalysisCost
		if err := r.store.UpsertTrend(ctx, trend); err != nil {
			return r.fatal(progress, summary, finish, fmt.Errorf("upsert %q: %w", trend.Keyword, err))
		}
	}

	summary.TotalAPICost = runCost
	summary.TopTrends = topTrends(scoredThisRun, r.cfg.TopTrendsLimit)
	metrics.AddAPICost(runCost)

	progress.Complete("Complete")
	finish("ok")
	return summary, nil
}

// fatal handles a persistence error: it is not specially recovered, ends
// the run with a terminal error event, and surfaces an error summary.
func (r *Runner) fatal(progress *ProgressEmitter, summary *models.RunSummary, finish func(string), err error) (*models.RunSummary, error) {
	log.Printf("[pipeline] fatal: %v", err)
	summary.Status = "error"
	summary.Error = err.Error()
	progress.Fail("Error: " + err.Error())
	finish("error")
	return summary, nil
}

func topTrends(scored []*models.Trend, limit int) []models.TopTrend {
	sorted := make([]*models.Trend, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return derefInt(sorted[i].Score) > derefInt(sorted[j].Score)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	top := make([]models.TopTrend, 0, len(sorted))
	for _, t := range sorted {
		top = append(top, models.TopTrend{
			Keyword: t.Keyword,
			Score:   derefInt(t.Score),
			Source:  t.Source,
		})
	}
	return top
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
