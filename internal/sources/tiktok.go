package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendscout/internal/models"
	"trendscout/internal/pipeline"
)

// TikTok reads trending hashtags from the Creative Center popular-hashtag
// pages. The page is a Next.js app; the hashtag list ships inside the
// __NEXT_DATA__ JSON blob.
type TikTok struct {
	BaseURL string
	Regions []string
	client  *http.Client
}

// NewTikTok creates the feed for the given ad-market regions.
func NewTikTok(regions []string) *TikTok {
	return &TikTok{
		BaseURL: "https://ads.tiktok.com",
		Regions: regions,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *TikTok) Name() string { return models.SourceTikTok }

// Fetch collects hashtags across all configured regions, deduplicated.
// A region that fails is skipped; Fetch errors only when every region
// failed.
func (t *TikTok) Fetch(ctx context.Context) ([]pipeline.Candidate, error) {
	seen := make(map[string]bool)
	var candidates []pipeline.Candidate
	var lastErr error
	failed := 0

	for _, region := range t.Regions {
		tags, err := t.fetchRegion(ctx, region)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		for _, tag := range tags {
			if !seen[tag] {
				seen[tag] = true
				candidates = append(candidates, pipeline.Candidate{Term: tag})
			}
		}
	}

	if failed == len(t.Regions) && lastErr != nil {
		return nil, fmt.Errorf("tiktok: all regions failed: %w", lastErr)
	}
	return candidates, nil
}

// nextData mirrors the slice of the __NEXT_DATA__ payload that carries the
// hashtag list.
type nextData struct {
	Props struct {
		PageProps struct {
			Data struct {
				List []struct {
					HashtagName string `json:"hashtag_name"`
				} `json:"list"`
			} `json:"data"`
		} `json:"pageProps"`
	} `json:"props"`
}

func (t *TikTok) fetchRegion(ctx context.Context, region string) ([]string, error) {
	url := fmt.Sprintf("%s/business/creativecenter/inspiration/popular/hashtag/pc/en?region=%s", t.BaseURL, region)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", t.BaseURL+"/")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("region %s: http %d", region, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	payload := doc.Find("script#__NEXT_DATA__").Text()
	if payload == "" {
		return nil, fmt.Errorf("region %s: no __NEXT_DATA__ in page", region)
	}

	var data nextData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("region %s: %w", region, err)
	}

	var tags []string
	for _, item := range data.Props.PageProps.Data.List {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(item.HashtagName, "#")))
		if name != "" {
			tags = append(tags, name)
		}
	}
	return tags, nil
}
