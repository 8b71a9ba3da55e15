package pipeline

import (
	"time"

	"trendscout/internal/models"
)

// Rescoring and deep-analysis windows. These thresholds are the cost
// control for external classification spend: do not change them without
// rechecking the per-run API budget.
const (
	rescoreCooldown   = 48 * time.Hour
	highScoreCooldown = 168 * time.Hour // scores >= 7 hold for a week
	reanalyzeCooldown = 30 * 24 * time.Hour

	deepAnalyzeMinInterest = 40
	reanalyzeMinInterest   = 50
)

// CachePolicy decides which keywords are worth spending classification or
// analysis calls on this run.
type CachePolicy struct{}

// ShouldRescore reports whether a record needs a fresh Stage-A score.
// Never-scored records always qualify. Recently scored records are cache
// hits, with a longer hold for high scorers.
func (CachePolicy) ShouldRescore(t *models.Trend, now time.Time) bool {
	if t.LastScoredAt == nil {
		return true
	}
	age := now.Sub(*t.LastScoredAt)
	if age < rescoreCooldown {
		return false
	}
	if t.IsHighValue() && age < highScoreCooldown {
		return false
	}
	return true
}

// ShouldDeepAnalyze reports whether a just-scored record qualifies for the
// expensive Stage-B analysis. Only high scorers with enough search interest
// qualify; existing analyses are held for a month and refreshed only while
// interest stays up.
func (CachePolicy) ShouldDeepAnalyze(t *models.Trend, now time.Time) bool {
	if !t.IsHighValue() {
		return false
	}
	if t.AvgInterest != nil && *t.AvgInterest < deepAnalyzeMinInterest {
		return false
	}
	if t.DeepAnalysis != nil && t.LastAnalyzedAt != nil {
		if now.Sub(*t.LastAnalyzedAt) < reanalyzeCooldown {
			return false
		}
		if t.AvgInterest == nil || *t.AvgInterest < reanalyzeMinInterest {
			return false
		}
	}
	return true
}
