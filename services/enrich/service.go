package enrich

import (
	"context"
	"log"
	"net/http"

	"whatwasthat/models"
)

// Service resolves a structured media identification against the TMDB catalog:
// match the noisy title guess to one catalog entry, then project that entry's
// full metadata onto the result.
type Service struct {
	tmdb *tmdbClient
}

// NewService builds an enrichment service. httpc may be nil, in which case a
// client with a bounded timeout is used.
func NewService(tmdbAPIKey string, httpc *http.Client) *Service {
	return &Service{tmdb: newTMDBClient(tmdbAPIKey, httpc)}
}

// Enrich augments a successful identification with catalog metadata. It never
// fails the request: error-status queries pass through untouched, lookup
// failures degrade the affected payload to null, and an unexpected panic
// returns the query un-enriched.
func (s *Service) Enrich(ctx context.Context, query models.MediaQuery) (result models.EnrichedResult) {
	result = models.EnrichedResult{MediaQuery: query}
	if query.Status != models.StatusSuccess {
		return result
	}
	if !s.tmdb.isConfigured() {
		log.Printf("[enrich] %v; returning identification without metadata", errNotConfigured)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[enrich] recovered from panic: %v", r)
			result = models.EnrichedResult{MediaQuery: query}
		}
	}()

	mediaType := ""
	if query.Type != nil {
		mediaType = *query.Type
	}

	switch mediaType {
	case models.TypeMovie:
		if query.MovieTitle == nil {
			return result
		}
		if match := s.bestMovieMatch(ctx, *query.MovieTitle, 0); match != nil {
			result.TMDBData = s.movieDetail(ctx, match.ID)
		}
	case models.TypeSeries:
		if query.SeriesTitle == nil {
			return result
		}
		if match := s.bestShowMatch(ctx, *query.SeriesTitle, 0); match != nil {
			result.TMDBData = s.showDetail(ctx, match.ID)
			season, episode := intValue(query.SeasonNumber), intValue(query.EpisodeNumber)
			if season > 0 && episode > 0 {
				result.EpisodeData = s.episodeDetail(ctx, match.ID, season, episode)
			}
		}
	}
	return result
}

// The detail wrappers convert any catalog failure into a null payload; a
// missing detail never aborts the enrichment as a whole.

func (s *Service) movieDetail(ctx context.Context, id int64) *models.MediaDetail {
	detail, err := s.tmdb.movieDetails(ctx, id)
	if err != nil {
		log.Printf("[enrich] movie details failed id=%d err=%v", id, err)
		return nil
	}
	return detail
}

func (s *Service) showDetail(ctx context.Context, id int64) *models.MediaDetail {
	detail, err := s.tmdb.showDetails(ctx, id)
	if err != nil {
		log.Printf("[enrich] show details failed id=%d err=%v", id, err)
		return nil
	}
	return detail
}

func (s *Service) episodeDetail(ctx context.Context, showID int64, season, episode int) *models.EpisodeDetail {
	detail, err := s.tmdb.episodeDetails(ctx, showID, season, episode)
	if err != nil {
		log.Printf("[enrich] episode details failed showId=%d season=%d episode=%d err=%v", showID, season, episode, err)
		return nil
	}
	return detail
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
