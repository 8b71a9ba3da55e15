package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

const validScoreJSON = `{
	"score": 8,
	"pod_viability": 8.5,
	"competition_level": "low",
	"ip_safe": true,
	"product_suggestions": ["t-shirt", "mug", "sticker"],
	"reasoning": "unique phrase with clear demand"
}`

func TestScorePrimary(t *testing.T) {
	primary := &fakeCompleter{response: validScoreJSON}
	fallback := &fakeCompleter{response: validScoreJSON}
	s := NewScorer(primary, fallback, "Groq (llama)", "OpenAI (gpt)")

	res, err := s.Score(context.Background(), "cat dad")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if res.Score != 8 || res.CompetitionLevel != "low" || !res.IPSafe {
		t.Errorf("result = %+v", res)
	}
	if res.ModelUsed != "Groq (llama)" {
		t.Errorf("ModelUsed = %q, want primary name", res.ModelUsed)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times when primary succeeded", fallback.calls)
	}
}

func TestScoreFallback(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("rate limited")}
	fallback := &fakeCompleter{response: validScoreJSON}
	s := NewScorer(primary, fallback, "Groq (llama)", "OpenAI (gpt)")

	res, err := s.Score(context.Background(), "cat dad")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if res.ModelUsed != "OpenAI (gpt)" {
		t.Errorf("ModelUsed = %q, want fallback name", res.ModelUsed)
	}
}

func TestScoreFallbackOnGarbage(t *testing.T) {
	// A primary that returns prose instead of JSON counts as a failure.
	primary := &fakeCompleter{response: "I think this keyword is great!"}
	fallback := &fakeCompleter{response: validScoreJSON}
	s := NewScorer(primary, fallback, "Groq (llama)", "OpenAI (gpt)")

	res, err := s.Score(context.Background(), "cat dad")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if res.ModelUsed != "OpenAI (gpt)" {
		t.Errorf("ModelUsed = %q, want fallback name", res.ModelUsed)
	}
}

func TestScoreBothFail(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("rate limited")}
	fallback := &fakeCompleter{err: errors.New("quota exceeded")}
	s := NewScorer(primary, fallback, "Groq (llama)", "OpenAI (gpt)")

	if _, err := s.Score(context.Background(), "cat dad"); err == nil {
		t.Fatal("Score() error = nil, want failure when both classifiers fail")
	}
}

func TestScoreNoFallbackConfigured(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("rate limited")}
	s := NewScorer(primary, nil, "Groq (llama)", "")

	if _, err := s.Score(context.Background(), "cat dad"); err == nil {
		t.Fatal("Score() error = nil, want failure without a fallback")
	}
}

func TestParseScoreResult(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"plain json", validScoreJSON, false},
		{"fenced json", "```json\n" + validScoreJSON + "\n```", false},
		{"bare fence", "```\n" + validScoreJSON + "\n```", false},
		{"surrounding whitespace", "  \n" + validScoreJSON + "\n  ", false},
		{"not json", "the score is eight", true},
		{"score out of range", `{"score": 15, "ip_safe": true}`, true},
		{"negative score", `{"score": -1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseScoreResult(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseScoreResult() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && res.Score != 8 {
				t.Errorf("score = %d, want 8", res.Score)
			}
		})
	}
}

func TestScorePromptIncludesKeyword(t *testing.T) {
	var captured string
	primary := &capturingCompleter{response: validScoreJSON, captured: &captured}
	s := NewScorer(primary, nil, "Groq (llama)", "")

	if _, err := s.Score(context.Background(), "cat dad"); err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !strings.Contains(captured, `"cat dad"`) {
		t.Errorf("prompt does not quote the keyword: %q", captured)
	}
}

type capturingCompleter struct {
	response string
	captured *string
}

func (c *capturingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	*c.captured = prompt
	return c.response, nil
}
