package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendscout/internal/models"
)

const scorePrompt = `You are a Print-on-Demand (POD) trend analyst.

Given a trending keyword or phrase, evaluate it for POD product potential.

Return ONLY valid JSON in this exact format (no markdown, no explanation):
{
  "score": <integer 0-10>,
  "pod_viability": <float 0-10>,
  "competition_level": "<low|medium|high>",
  "ip_safe": <true|false>,
  "product_suggestions": ["<product1>", "<product2>", "<product3>"],
  "reasoning": "<one sentence explaining the score>"
}

Scoring criteria:
- 8-10: High demand, unique phrase, low competition, clearly IP safe
- 5-7: Decent demand, moderate competition, likely IP safe
- 2-4: Low demand OR high competition OR IP concerns
- 0-1: No POD value OR clear IP violation (brand names, copyrighted phrases)

Keyword: %q
`

// Scorer is the Stage-A fast classifier: a free-tier primary model with a
// paid fallback. Both clients are injected; neither is constructed lazily.
type Scorer struct {
	primary      ChatCompleter
	fallback     ChatCompleter
	primaryName  string
	fallbackName string
}

// NewScorer creates a scorer. fallback may be nil when no secondary
// classifier is configured.
func NewScorer(primary, fallback ChatCompleter, primaryName, fallbackName string) *Scorer {
	return &Scorer{
		primary:      primary,
		fallback:     fallback,
		primaryName:  primaryName,
		fallbackName: fallbackName,
	}
}

// Score classifies one keyword. On primary failure it tries the fallback
// once; if both fail the error is returned and the caller retains the
// record's prior state.
func (s *Scorer) Score(ctx context.Context, keyword string) (*models.ScoreResult, error) {
	prompt := fmt.Sprintf(scorePrompt, keyword)

	raw, err := s.primary.Complete(ctx, prompt)
	if err == nil {
		if res, perr := parseScoreResult(raw); perr == nil {
			res.ModelUsed = s.primaryName
			return res, nil
		} else {
			err = perr
		}
	}

	if s.fallback == nil {
		return nil, fmt.Errorf("score %q: %w", keyword, err)
	}

	log.Printf("[scorer] primary failed for %q, trying fallback: %v", keyword, err)
	raw, ferr := s.fallback.Complete(ctx, prompt)
	if ferr != nil {
		return nil, fmt.Errorf("score %q: fallback: %w", keyword, ferr)
	}
	res, perr := parseScoreResult(raw)
	if perr != nil {
		return nil, fmt.Errorf("score %q: fallback: %w", keyword, perr)
	}
	res.ModelUsed = s.fallbackName
	return res, nil
}

// parseScoreResult decodes the classifier's strict-JSON contract. Models
// occasionally wrap the JSON in a markdown fence despite instructions, so
// the fence is stripped before decoding.
func parseScoreResult(raw string) (*models.ScoreResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var res models.ScoreResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("invalid score response: %w", err)
	}
	if res.Score < 0 || res.Score > 10 {
		return nil, fmt.Errorf("score %d out of range", res.Score)
	}
	return &res, nil
}
