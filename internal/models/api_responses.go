package models

import "time"

// RunSummary is the batch-mode pipeline result returned to scheduled callers.
type RunSummary struct {
	Status          string     `json:"status"`
	Error           string     `json:"error,omitempty"`
	RunAt           time.Time  `json:"run_at"`
	DurationSeconds float64    `json:"duration_seconds"`
	ScrapedTotal    int        `json:"scraped_total"`
	NewKeywords     int        `json:"new_keywords"`
	Scored          int        `json:"scored"`
	Cached          int        `json:"cached"`
	Blocked         int        `json:"blocked"`
	TotalAPICost    float64    `json:"total_api_cost"`
	TopTrends       []TopTrend `json:"top_trends"`
}

// TopTrend is a compact view of a high-scoring keyword for run summaries.
type TopTrend struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
	Source  string `json:"source"`
}

// BlockedKeyword is a keyword rejected by the blacklist filter, with the
// reason code from the first matching rule set.
type BlockedKeyword struct {
	Keyword string `json:"keyword"`
	Reason  string `json:"reason"`
}
