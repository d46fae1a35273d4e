package enrich

import (
	"context"
	"log"
	"time"
)

const (
	topMovieResults = 5
	// Regional re-versioning produces near-duplicate show titles, so shows get
	// a wider scoring window than movies.
	topShowResults = 10
)

type searchFunc func(ctx context.Context, query string, year int) ([]searchResult, error)

type scoreFunc func(r searchResult, originalTitle, searchTitle string, now time.Time) float64

func (s *Service) bestMovieMatch(ctx context.Context, title string, year int) *searchResult {
	return bestMatch(ctx, title, year, s.tmdb.searchMovies, scoreMovieCandidate, topMovieResults)
}

func (s *Service) bestShowMatch(ctx context.Context, title string, year int) *searchResult {
	return bestMatch(ctx, title, year, s.tmdb.searchShows, scoreShowCandidate, topShowResults)
}

// bestMatch tries each title variant in order, scores the top results of each
// search, and keeps the single highest-scoring candidate seen so far. The loop
// stops early once a candidate reaches highConfidenceScore; trying fewer
// variants is preferred over shaving latency, so searches run sequentially.
// A failed search degrades to no match for that variant only. Returns nil when
// no candidate ever scored above zero.
func bestMatch(ctx context.Context, title string, year int, search searchFunc, score scoreFunc, topK int) *searchResult {
	now := time.Now()
	var best *searchResult
	bestScore := 0.0

	for _, variant := range titleVariants(title) {
		results, err := search(ctx, variant, year)
		if err != nil {
			log.Printf("[enrich] search failed query=%q err=%v", variant, err)
			continue
		}
		if len(results) > topK {
			results = results[:topK]
		}
		for i := range results {
			if sc := score(results[i], title, variant, now); sc > bestScore {
				bestScore = sc
				match := results[i]
				best = &match
			}
		}
		if bestScore >= highConfidenceScore {
			break
		}
	}
	return best
}
