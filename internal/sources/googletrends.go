// Package sources implements the concrete keyword feeds the aggregator
// fans out over. Each feed is independent: it may be slow, may fail, and
// reports whatever interest metadata its upstream exposes.
package sources

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"trendscout/internal/models"
	"trendscout/internal/pipeline"
)

// GoogleTrends reads the daily trending-searches RSS feed. Entries carry
// an approximate traffic figure which is normalized into the 0-100
// interest scale.
type GoogleTrends struct {
	FeedURL string
	Limit   int
	parser  *gofeed.Parser
}

// NewGoogleTrends creates the feed for one geo, e.g. "US".
func NewGoogleTrends(geo string, limit int) *GoogleTrends {
	return &GoogleTrends{
		FeedURL: fmt.Sprintf("https://trends.google.com/trending/rss?geo=%s", geo),
		Limit:   limit,
		parser:  gofeed.NewParser(),
	}
}

func (g *GoogleTrends) Name() string { return models.SourceGoogle }

// Fetch parses the RSS feed into candidates. Daily trending entries are
// by definition rising.
func (g *GoogleTrends) Fetch(ctx context.Context) ([]pipeline.Candidate, error) {
	feed, err := g.parser.ParseURLWithContext(g.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("google trends feed: %w", err)
	}

	var candidates []pipeline.Candidate
	for _, item := range feed.Items {
		if g.Limit > 0 && len(candidates) >= g.Limit {
			break
		}
		term := strings.TrimSpace(strings.ToLower(item.Title))
		if term == "" {
			continue
		}

		c := pipeline.Candidate{Term: term, TrendDirection: models.VelocityRising}
		if interest, ok := approxTrafficInterest(item); ok {
			c.AvgInterest = &interest
			c.InterestPeak = &interest
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// approxTrafficInterest maps the feed's "ht:approx_traffic" extension
// (strings like "200,000+") onto the 0-100 interest scale, saturating at
// one million searches.
func approxTrafficInterest(item *gofeed.Item) (int, bool) {
	ext, ok := item.Extensions["ht"]
	if !ok {
		return 0, false
	}
	traffic, ok := ext["approx_traffic"]
	if !ok || len(traffic) == 0 {
		return 0, false
	}

	raw := strings.TrimSuffix(traffic[0].Value, "+")
	raw = strings.ReplaceAll(raw, ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	interest := n / 10000
	if interest > 100 {
		interest = 100
	}
	return interest, true
}
