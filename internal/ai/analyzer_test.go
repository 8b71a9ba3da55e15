package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleAnalysis = `## Design Brief
Minimalist line art with muted earth tones. Hand-lettered serif typography.

## Target Audience
Millennial pet owners, 25-40, who treat pets as family.

## Copy Angles
- "Cat dad era"
- "Professional cat cuddler"

## Best Products
T-shirts and mugs; the phrase reads well at small sizes.`

func TestParseAnalysis(t *testing.T) {
	a := ParseAnalysis(sampleAnalysis)

	if a.DeepAnalysis != sampleAnalysis {
		t.Error("full text was not retained")
	}
	want := "Minimalist line art with muted earth tones. Hand-lettered serif typography."
	if a.DesignBrief != want {
		t.Errorf("DesignBrief = %q, want %q", a.DesignBrief, want)
	}
	if a.TargetAudience == "" {
		t.Error("TargetAudience is empty")
	}
}

func TestParseAnalysisMissingSections(t *testing.T) {
	text := "The model ignored the format and wrote prose instead."
	a := ParseAnalysis(text)

	if a.DeepAnalysis != text {
		t.Error("full text was not retained")
	}
	if a.DesignBrief != "" || a.TargetAudience != "" {
		t.Errorf("missing sections should be empty, got brief=%q audience=%q", a.DesignBrief, a.TargetAudience)
	}
}

func TestParseAnalysisPreambleIgnored(t *testing.T) {
	text := "Here is the analysis you asked for.\n\n## Design Brief\nBold type.\n"
	a := ParseAnalysis(text)

	if a.DesignBrief != "Bold type." {
		t.Errorf("DesignBrief = %q, want %q", a.DesignBrief, "Bold type.")
	}
}

func TestSplitSections(t *testing.T) {
	text := "## One\nfirst\nsection\n## Two\nsecond\n## Empty\n## One More\ntail"
	sections := splitSections(text)

	tests := []struct {
		heading string
		want    string
	}{
		{"One", "first\nsection"},
		{"Two", "second"},
		{"Empty", ""},
		{"One More", "tail"},
	}
	for _, tt := range tests {
		if got := sections[tt.heading]; got != tt.want {
			t.Errorf("sections[%q] = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

func TestAnalyzeAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("anthropic-version header missing")
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 1 {
			t.Fatalf("got %d messages, want 1", len(req.Messages))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "## Design Brief\nBold type."}},
		})
	}))
	defer srv.Close()

	a := NewAnalyzer(srv.URL, "test-key", "claude-3-haiku-20240307")
	res, err := a.Analyze(context.Background(), "cat dad", 8, []string{"t-shirt"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.DesignBrief != "Bold type." {
		t.Errorf("DesignBrief = %q", res.DesignBrief)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAnalyzer(srv.URL, "test-key", "claude-3-haiku-20240307")
	if _, err := a.Analyze(context.Background(), "cat dad", 8, nil); err == nil {
		t.Fatal("Analyze() error = nil, want API error")
	}
}

func TestAnalyzeNoAPIKey(t *testing.T) {
	a := NewAnalyzer("http://localhost", "", "claude-3-haiku-20240307")
	if _, err := a.Analyze(context.Background(), "cat dad", 8, nil); err == nil {
		t.Fatal("Analyze() error = nil, want missing key error")
	}
}
