package pipeline

import (
	"context"
	"log"
	"sync"
)

// Candidate is one keyword sighting from a feed, with whatever interest
// metadata the feed could supply.
type Candidate struct {
	Term           string
	Source         string
	AvgInterest    *int // 0-100 when the feed reports search interest
	InterestPeak   *int
	TrendDirection string // rising / stable / declining, empty when unknown
}

// Source is one independent keyword feed. Fetch may be slow and may fail;
// the aggregator isolates both.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Candidate, error)
}

// Aggregator fans out over all configured sources concurrently and merges
// their results into one deduplicated, ordered candidate list.
type Aggregator struct {
	sources []Source
}

// NewAggregator creates an aggregator over the given sources.
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// Fetch runs every source concurrently. A failed source contributes an
// empty result and never aborts the batch. Duplicate keywords keep the
// attribution of whichever source's result was merged first; since merge
// order follows fetch completion order, attribution between concurrent
// sources is an accepted nondeterminism.
func (a *Aggregator) Fetch(ctx context.Context) []Candidate {
	results := make(chan []Candidate, len(a.sources))

	var wg sync.WaitGroup
	for _, src := range a.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			candidates, err := src.Fetch(ctx)
			if err != nil {
				log.Printf("[aggregator] source %s failed: %v", src.Name(), err)
				results <- nil
				return
			}
			for i := range candidates {
				candidates[i].Source = src.Name()
			}
			log.Printf("[aggregator] source %s returned %d keywords", src.Name(), len(candidates))
			results <- candidates
		}(src)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// First-wins merge in arrival order. The seen map plus the ordered
	// slice replaces relying on map iteration order for attribution.
	seen := make(map[string]bool)
	var merged []Candidate
	for batch := range results {
		for _, c := range batch {
			if c.Term == "" || seen[c.Term] {
				continue
			}
			seen[c.Term] = true
			merged = append(merged, c)
		}
	}
	return merged
}
