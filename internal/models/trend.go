package models

import (
	"time"

	"github.com/google/uuid"
)

// Keyword sources. First-seen feed wins when the same keyword arrives
// from several feeds in one run.
const (
	SourceGoogle    = "google"
	SourceTikTok    = "tiktok"
	SourcePinterest = "pinterest"
	SourceRedbubble = "redbubble"
	SourceSeed      = "seed"
)

// Competition levels reported by the fast classifier.
const (
	CompetitionLow    = "low"
	CompetitionMedium = "medium"
	CompetitionHigh   = "high"
)

// Trend velocity values.
const (
	VelocityRising    = "rising"
	VelocityStable    = "stable"
	VelocityDeclining = "declining"
)

// Urgency labels, derived from temporal context and momentum.
const (
	UrgencyUrgent    = "urgent"
	UrgencyPlanAhead = "plan_ahead"
	UrgencyEvergreen = "evergreen"
	UrgencyStandard  = "standard"
)

// Validation statuses.
const (
	ValidationProvenSeller = "proven_seller"
	ValidationUntested     = "untested"
)

// DeepAnalysisThreshold is the fast-score floor for deep analysis eligibility.
const DeepAnalysisThreshold = 7

// Trend is the persisted unit of work: a candidate market keyword plus all
// derived scoring, temporal, and cost metadata. Keyword is the natural key.
type Trend struct {
	ID      uuid.UUID `json:"id"`
	Keyword string    `json:"keyword"`
	Source  string    `json:"source"`

	// Fast scoring (Stage A)
	Score              *int     `json:"score"`
	PodViability       *float64 `json:"pod_viability"`
	CompetitionLevel   *string  `json:"competition_level"`
	IPSafe             *bool    `json:"ip_safe"`
	ProductSuggestions []string `json:"product_suggestions"`
	ScoreReasoning     *string  `json:"score_reasoning"`

	// Deep analysis (Stage B, score >= 7 only)
	DeepAnalysis   *string `json:"deep_analysis"`
	DesignBrief    *string `json:"design_brief"`
	TargetAudience *string `json:"target_audience"`

	// Temporal tracking
	LastScrapedAt  *time.Time `json:"last_scraped_at"`
	ScrapeCount    int        `json:"scrape_count"`
	LastScoredAt   *time.Time `json:"last_scored_at"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at"`
	DaysTrending   int        `json:"days_trending"`

	// Momentum
	TrendVelocity *string    `json:"trend_velocity"`
	PeakScore     *int       `json:"peak_score"`
	PeakDate      *time.Time `json:"peak_date"`

	// Search interest metrics
	AvgInterest   *int     `json:"avg_interest"` // 0-100
	InterestPeak  *int     `json:"interest_peak"`
	InterestDelta *float64 `json:"interest_delta"` // % change vs previous avg

	// Temporal context
	TemporalTags []string `json:"temporal_tags"`
	EmojiTag     *string  `json:"emoji_tag"`
	Urgency      *string  `json:"urgency"`

	// Cost tracking. TotalAPICost is always ScoringCost + AnalysisCost.
	ScoringCost  float64 `json:"scoring_cost"`
	AnalysisCost float64 `json:"analysis_cost"`
	TotalAPICost float64 `json:"total_api_cost"`

	// Lifecycle
	ValidationStatus *string   `json:"validation_status"`
	Archived         bool      `json:"archived"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ScoreResult is the fast-classifier output for one keyword.
type ScoreResult struct {
	Score              int      `json:"score"`
	PodViability       float64  `json:"pod_viability"`
	CompetitionLevel   string   `json:"competition_level"`
	IPSafe             bool     `json:"ip_safe"`
	ProductSuggestions []string `json:"product_suggestions"`
	Reasoning          string   `json:"reasoning"`
	ModelUsed          string   `json:"model_used,omitempty"`
}

// Analysis is the parsed deep-analysis output for one keyword.
type Analysis struct {
	DeepAnalysis   string
	DesignBrief    string
	TargetAudience string
}

// IsHighValue reports whether the trend cleared the deep-analysis score floor.
func (t *Trend) IsHighValue() bool {
	return t.Score != nil && *t.Score >= DeepAnalysisThreshold
}

// ApplyScore records a successful Stage-A result. The peak score only moves
// up: the first successful score seeds it, later lower scores leave it alone.
func (t *Trend) ApplyScore(res *ScoreResult, cost float64, now time.Time) {
	score := res.Score
	t.Score = &score
	t.PodViability = &res.PodViability
	t.CompetitionLevel = &res.CompetitionLevel
	t.IPSafe = &res.IPSafe
	t.ProductSuggestions = res.ProductSuggestions
	if len(t.ProductSuggestions) > 3 {
		t.ProductSuggestions = t.ProductSuggestions[:3]
	}
	t.ScoreReasoning = &res.Reasoning
	t.LastScoredAt = &now

	if t.PeakScore == nil || score > *t.PeakScore {
		peak := score
		t.PeakScore = &peak
		peakDate := now
		t.PeakDate = &peakDate
	}

	t.ScoringCost += cost
	t.recomputeTotalCost()
}

// ApplyAnalysis records a successful Stage-B result.
func (t *Trend) ApplyAnalysis(a *Analysis, cost float64, now time.Time) {
	t.DeepAnalysis = &a.DeepAnalysis
	t.DesignBrief = &a.DesignBrief
	t.TargetAudience = &a.TargetAudience
	t.LastAnalyzedAt = &now

	t.AnalysisCost += cost
	t.recomputeTotalCost()
}

// RecordSighting updates scrape tracking and interest metrics for a keyword
// seen again this run. InterestDelta is the % change against the previous
// average, zero when there is no prior value.
func (t *Trend) RecordSighting(avgInterest, interestPeak *int, velocity string, now time.Time) {
	t.LastScrapedAt = &now
	if t.ScrapeCount < 1 {
		t.ScrapeCount = 1
	} else {
		t.ScrapeCount++
	}
	t.DaysTrending = int(now.Sub(t.CreatedAt).Hours() / 24)

	if avgInterest != nil {
		delta := 0.0
		if t.AvgInterest != nil && *t.AvgInterest > 0 {
			delta = float64(*avgInterest-*t.AvgInterest) / float64(*t.AvgInterest) * 100
		}
		t.InterestDelta = &delta
		t.AvgInterest = avgInterest
	}
	if interestPeak != nil {
		t.InterestPeak = interestPeak
	}
	if velocity != "" {
		v := velocity
		t.TrendVelocity = &v
	}
}

func (t *Trend) recomputeTotalCost() {
	t.TotalAPICost = t.ScoringCost + t.AnalysisCost
}
