package models

import (
	"testing"
	"time"
)

func score(v int) *ScoreResult {
	return &ScoreResult{
		Score:              v,
		PodViability:       float64(v),
		CompetitionLevel:   CompetitionMedium,
		IPSafe:             true,
		ProductSuggestions: []string{"t-shirt", "mug"},
		Reasoning:          "test",
	}
}

func TestTrend_ApplyScore_PeakNeverDecreases(t *testing.T) {
	now := time.Now()
	trend := &Trend{Keyword: "stoic quotes", CreatedAt: now}

	trend.ApplyScore(score(6), 0, now)
	if trend.PeakScore == nil || *trend.PeakScore != 6 {
		t.Fatalf("first score should seed peak, got %v", trend.PeakScore)
	}
	firstPeakDate := *trend.PeakDate

	trend.ApplyScore(score(9), 0, now.Add(time.Hour))
	if *trend.PeakScore != 9 {
		t.Errorf("peak should rise to 9, got %d", *trend.PeakScore)
	}

	trend.ApplyScore(score(4), 0, now.Add(2*time.Hour))
	if *trend.PeakScore != 9 {
		t.Errorf("peak should never decrease, got %d", *trend.PeakScore)
	}
	if trend.PeakDate.Before(firstPeakDate) {
		t.Error("peak date moved backwards")
	}
	if *trend.Score != 4 {
		t.Errorf("current score should track latest result, got %d", *trend.Score)
	}
}

func TestTrend_CostInvariant(t *testing.T) {
	now := time.Now()
	trend := &Trend{Keyword: "cat mom gifts", CreatedAt: now}

	check := func(step string) {
		t.Helper()
		if got := trend.ScoringCost + trend.AnalysisCost; trend.TotalAPICost != got {
			t.Errorf("%s: total_api_cost = %f, want %f", step, trend.TotalAPICost, got)
		}
	}

	trend.ApplyScore(score(8), 0, now)
	check("after score")

	trend.ApplyAnalysis(&Analysis{DeepAnalysis: "full text"}, 0.003, now)
	check("after analysis")

	trend.ApplyScore(score(7), 0.001, now.Add(time.Hour))
	check("after rescore")

	trend.ApplyAnalysis(&Analysis{DeepAnalysis: "more"}, 0.003, now.Add(time.Hour))
	check("after reanalysis")

	if trend.AnalysisCost != 0.006 {
		t.Errorf("analysis cost = %f, want 0.006", trend.AnalysisCost)
	}
}

func TestTrend_ApplyScore_TruncatesSuggestions(t *testing.T) {
	trend := &Trend{Keyword: "gym humor"}
	res := score(5)
	res.ProductSuggestions = []string{"a", "b", "c", "d", "e"}

	trend.ApplyScore(res, 0, time.Now())
	if len(trend.ProductSuggestions) != 3 {
		t.Errorf("product suggestions should cap at 3, got %d", len(trend.ProductSuggestions))
	}
}

func TestTrend_RecordSighting(t *testing.T) {
	created := time.Now().Add(-72 * time.Hour)
	now := time.Now()

	tests := []struct {
		name        string
		trend       Trend
		avgInterest *int
		wantDelta   *float64
		wantCount   int
	}{
		{
			name:      "first sighting has no delta",
			trend:     Trend{CreatedAt: created, ScrapeCount: 0},
			wantCount: 1,
		},
		{
			name:        "prior interest yields percent delta",
			trend:       Trend{CreatedAt: created, ScrapeCount: 2, AvgInterest: intPtr(50)},
			avgInterest: intPtr(75),
			wantDelta:   floatPtr(50),
			wantCount:   3,
		},
		{
			name:        "no prior interest yields zero delta",
			trend:       Trend{CreatedAt: created, ScrapeCount: 1},
			avgInterest: intPtr(40),
			wantDelta:   floatPtr(0),
			wantCount:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.trend.RecordSighting(tt.avgInterest, nil, VelocityRising, now)
			if tt.trend.ScrapeCount != tt.wantCount {
				t.Errorf("scrape count = %d, want %d", tt.trend.ScrapeCount, tt.wantCount)
			}
			if tt.trend.DaysTrending != 3 {
				t.Errorf("days trending = %d, want 3", tt.trend.DaysTrending)
			}
			if tt.wantDelta == nil {
				if tt.trend.InterestDelta != nil {
					t.Errorf("expected no delta, got %f", *tt.trend.InterestDelta)
				}
			} else if tt.trend.InterestDelta == nil || *tt.trend.InterestDelta != *tt.wantDelta {
				t.Errorf("delta = %v, want %f", tt.trend.InterestDelta, *tt.wantDelta)
			}
		})
	}
}

func TestTrend_IsHighValue(t *testing.T) {
	tests := []struct {
		name     string
		score    *int
		expected bool
	}{
		{"unscored", nil, false},
		{"below threshold", intPtr(6), false},
		{"at threshold", intPtr(7), true},
		{"above threshold", intPtr(10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := &Trend{Score: tt.score}
			if got := trend.IsHighValue(); got != tt.expected {
				t.Errorf("IsHighValue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
