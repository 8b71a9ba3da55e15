package sources

import (
	"context"
	"strings"

	"trendscout/internal/models"
	"trendscout/internal/pipeline"
)

// Default niche seed keywords, used when the config file supplies none.
var defaultSeeds = []string{
	// Mindset & motivation
	"stoic quotes", "motivational phrases", "self improvement",
	// Gym / fitness
	"gym motivation quotes", "workout motivation", "fitness lifestyle",
	// Lifestyle niches
	"coffee lover", "introvert gifts", "cat mom gifts",
	// Fashion / streetwear
	"minimalist style", "aesthetic fashion", "vintage streetwear",
	// Occasions
	"mothers day gift ideas", "fathers day gifts",
	// Emerging niches
	"dark humor", "cottagecore aesthetic", "retrowave",
	// Proven niches
	"funny dog shirts", "nurse appreciation gifts", "teacher gifts",
}

// Seed is a deterministic feed of configured niche keywords. It keeps the
// pipeline productive when the scraped feeds are rate-limited or down, and
// gives dev environments reproducible input.
type Seed struct {
	keywords []string
}

// NewSeed creates the feed from configured keywords, falling back to the
// built-in niche list.
func NewSeed(keywords []string) *Seed {
	if len(keywords) == 0 {
		keywords = defaultSeeds
	}
	return &Seed{keywords: keywords}
}

func (s *Seed) Name() string { return models.SourceSeed }

// Fetch returns the configured keywords, normalized.
func (s *Seed) Fetch(ctx context.Context) ([]pipeline.Candidate, error) {
	candidates := make([]pipeline.Candidate, 0, len(s.keywords))
	for _, kw := range s.keywords {
		term := strings.ToLower(strings.TrimSpace(kw))
		if term == "" {
			continue
		}
		candidates = append(candidates, pipeline.Candidate{Term: term})
	}
	return candidates, nil
}
