package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"trendscout/internal/models"
	"trendscout/internal/pipeline"
)

// Pinterest reads the top-trends API behind trends.pinterest.com. The API
// wants a browser session: an initial page hit sets a csrftoken cookie
// that must be echoed back as a header.
type Pinterest struct {
	BaseURL string
	Regions []string
	client  *http.Client
}

// NewPinterest creates the feed for the given country codes.
func NewPinterest(regions []string) *Pinterest {
	jar, _ := cookiejar.New(nil)
	return &Pinterest{
		BaseURL: "https://trends.pinterest.com",
		Regions: regions,
		client:  &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
}

func (p *Pinterest) Name() string { return models.SourcePinterest }

type pinterestTrends struct {
	Values []struct {
		Term string `json:"term"`
	} `json:"values"`
}

// Fetch bootstraps a session, then collects trending terms across all
// configured regions. Terms of three characters or fewer are noise and
// dropped.
func (p *Pinterest) Fetch(ctx context.Context) ([]pipeline.Candidate, error) {
	csrf, err := p.initSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("pinterest: init session: %w", err)
	}

	seen := make(map[string]bool)
	var candidates []pipeline.Candidate

	for _, region := range p.Regions {
		terms, err := p.fetchRegion(ctx, region, csrf)
		if err != nil {
			continue
		}
		for _, term := range terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if len(term) <= 3 || seen[term] {
				continue
			}
			seen[term] = true
			candidates = append(candidates, pipeline.Candidate{Term: term})
		}
	}
	return candidates, nil
}

func (p *Pinterest) initSession(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == "csrftoken" {
			return c.Value, nil
		}
	}
	return "", nil
}

func (p *Pinterest) fetchRegion(ctx context.Context, region, csrf string) ([]string, error) {
	// GB shares its trends bucket with Ireland upstream.
	if region == "GB" {
		region = "GB+IE"
	}
	// The API rejects very recent end dates; a week back is safe.
	endDate := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	url := fmt.Sprintf(
		"%s/top_trends_filtered/?lookbackWindow=2&endDate=%s&rankingMethod=3&country=%s&trendsPreset=3&numTermsToReturn=30",
		p.BaseURL, endDate, region,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", p.BaseURL+"/")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if csrf != "" {
		req.Header.Set("X-CSRFToken", csrf)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("region %s: http %d", region, resp.StatusCode)
	}

	var trends pinterestTrends
	if err := json.NewDecoder(resp.Body).Decode(&trends); err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(trends.Values))
	for _, v := range trends.Values {
		if v.Term != "" {
			terms = append(terms, v.Term)
		}
	}
	return terms, nil
}
