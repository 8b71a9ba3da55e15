package sources

import (
	"context"
	"testing"
)

func TestSeedConfiguredKeywords(t *testing.T) {
	s := NewSeed([]string{"  Cat Dad  ", "", "Retro Sunset"})

	candidates, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := []string{"cat dad", "retro sunset"}
	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
	}
	for i, term := range want {
		if candidates[i].Term != term {
			t.Errorf("candidates[%d] = %q, want %q", i, candidates[i].Term, term)
		}
	}
}

func TestSeedDefaults(t *testing.T) {
	s := NewSeed(nil)

	candidates, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("default seed list is empty")
	}
}
