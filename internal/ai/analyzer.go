package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trendscout/internal/models"
)

const analysisPrompt = `You are an expert Print-on-Demand brand strategist for a premium POD brand.

A trending keyword has scored 7+ on POD viability. Provide a deep analysis to guide design creation.

Return your response in this exact format (use markdown headers exactly as shown):

## Design Brief
[2-3 sentences describing the visual direction: style, mood, typography approach, color palette]

## Target Audience
[Who buys this: age range, interests, values, buying motivation - 2-3 sentences]

## Copy Angles
- [Angle 1: specific phrase or hook for the design]
- [Angle 2: alternative hook]
- [Angle 3: third option]

## Best Products
[Which POD products this works best on and why - t-shirts, hoodies, mugs, posters, etc.]

Trending keyword: %q
Fast score: %d/10
Product suggestions from scoring: %s
`

// Section heading names the analyzer recognizes in responses.
const (
	sectionDesignBrief    = "Design Brief"
	sectionTargetAudience = "Target Audience"
	headingMarker         = "## "
)

// Analyzer is the Stage-B deep-analysis collaborator, backed by the
// Anthropic messages API.
type Analyzer struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	client    *http.Client
}

// NewAnalyzer creates an analyzer client.
func NewAnalyzer(baseURL, apiKey, model string) *Analyzer {
	return &Analyzer{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: 800,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Analyze runs deep analysis on a high-scoring keyword and parses the
// heading-delimited response into named sections. The full response text
// is always retained verbatim.
func (a *Analyzer) Analyze(ctx context.Context, keyword string, score int, productSuggestions []string) (*models.Analysis, error) {
	if a.APIKey == "" {
		return nil, errors.New("analyzer api key is not configured")
	}

	prompt := fmt.Sprintf(analysisPrompt, keyword, score, strings.Join(productSuggestions, ", "))
	body, err := json.Marshal(messagesRequest{
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("messages api error: status %d", resp.StatusCode)
	}

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Content) == 0 {
		return nil, errors.New("messages api returned no content")
	}

	return ParseAnalysis(out.Content[0].Text), nil
}

// ParseAnalysis splits free-form analysis text on level-2 heading markers
// and maps the recognized sections. A missing expected section defaults to
// the empty string; the unparsed text is kept as DeepAnalysis.
func ParseAnalysis(text string) *models.Analysis {
	sections := splitSections(text)
	return &models.Analysis{
		DeepAnalysis:   text,
		DesignBrief:    sections[sectionDesignBrief],
		TargetAudience: sections[sectionTargetAudience],
	}
}

// splitSections implements the heading micro-grammar: a line starting with
// "## " opens a named section that runs until the next heading or the end
// of the text. Text before the first heading belongs to no section.
func splitSections(text string) map[string]string {
	sections := make(map[string]string)
	var current string
	var lines []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, headingMarker) {
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, headingMarker))
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return sections
}
