package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendscout/internal/models"
	"trendscout/internal/pipeline"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Redbubble extracts popular design tags from the marketplace explore
// page. Multi-word tags are preferred since they describe niches rather
// than single generic words.
type Redbubble struct {
	BaseURL string
	Limit   int
	client  *http.Client
}

// NewRedbubble creates the feed with the production explore URL.
func NewRedbubble(limit int) *Redbubble {
	return &Redbubble{
		BaseURL: "https://www.redbubble.com",
		Limit:   limit,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (r *Redbubble) Name() string { return models.SourceRedbubble }

// Fetch scrapes shop links off the explore page and keeps their anchor
// text as candidate tags.
func (r *Redbubble) Fetch(ctx context.Context) ([]pipeline.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/explore/for-you", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("redbubble: http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tags []string
	doc.Find(`a[href*="/shop/"]`).Each(func(_ int, sel *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if len(text) <= 3 || strings.Contains(text, "redbubble") || strings.Contains(text, "login") {
			return
		}
		if !seen[text] {
			seen[text] = true
			tags = append(tags, text)
		}
	})

	// Multi-word tags make better niches.
	var refined []string
	for _, t := range tags {
		if strings.Contains(t, " ") {
			refined = append(refined, t)
		}
	}
	if len(refined) == 0 {
		refined = tags
	}
	if r.Limit > 0 && len(refined) > r.Limit {
		refined = refined[:r.Limit]
	}

	candidates := make([]pipeline.Candidate, 0, len(refined))
	for _, t := range refined {
		candidates = append(candidates, pipeline.Candidate{Term: t})
	}
	return candidates, nil
}
