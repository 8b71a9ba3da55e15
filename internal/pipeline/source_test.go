package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	name       string
	candidates []Candidate
	err        error
	delay      time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) ([]Candidate, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func TestAggregatorFirstWins(t *testing.T) {
	fast := &fakeSource{
		name:       "google",
		candidates: []Candidate{{Term: "cat dad"}, {Term: "plant mom"}},
	}
	slow := &fakeSource{
		name:       "tiktok",
		candidates: []Candidate{{Term: "cat dad"}, {Term: "gym humor"}},
		delay:      100 * time.Millisecond,
	}

	merged := NewAggregator(fast, slow).Fetch(context.Background())

	want := map[string]string{
		"cat dad":   "google",
		"plant mom": "google",
		"gym humor": "tiktok",
	}
	if len(merged) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(merged), len(want), merged)
	}
	for _, c := range merged {
		if src, ok := want[c.Term]; !ok {
			t.Errorf("unexpected candidate %q", c.Term)
		} else if c.Source != src {
			t.Errorf("candidate %q attributed to %q, want %q", c.Term, c.Source, src)
		}
	}
}

func TestAggregatorFailureIsolation(t *testing.T) {
	ok := &fakeSource{name: "seed", candidates: []Candidate{{Term: "stoic quotes"}}}
	broken := &fakeSource{name: "pinterest", err: errors.New("blocked by captcha")}

	merged := NewAggregator(ok, broken).Fetch(context.Background())

	if len(merged) != 1 {
		t.Fatalf("got %d candidates, want 1", len(merged))
	}
	if merged[0].Term != "stoic quotes" || merged[0].Source != "seed" {
		t.Errorf("merged[0] = %+v", merged[0])
	}
}

func TestAggregatorSkipsEmptyTerms(t *testing.T) {
	src := &fakeSource{name: "seed", candidates: []Candidate{{Term: ""}, {Term: "dog mom"}}}

	merged := NewAggregator(src).Fetch(context.Background())
	if len(merged) != 1 || merged[0].Term != "dog mom" {
		t.Errorf("merged = %+v, want only %q", merged, "dog mom")
	}
}

func TestAggregatorNoSources(t *testing.T) {
	if merged := NewAggregator().Fetch(context.Background()); len(merged) != 0 {
		t.Errorf("merged = %+v, want empty", merged)
	}
}
