package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"whatwasthat/models"

	"github.com/avast/retry-go/v4"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	// Optimized image sizes instead of "original" to keep payloads small.
	// Posters: w500, backdrops: w1280, cast profiles: w185, episode stills: w500.
	tmdbPosterSize   = "w500"
	tmdbBackdropSize = "w1280"
	tmdbProfileSize  = "w185"
	tmdbStillSize    = "w500"
)

var errNotConfigured = errors.New("tmdb api key not configured")

type tmdbClient struct {
	apiKey string
	httpc  *http.Client

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newTMDBClient(apiKey string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:      strings.TrimSpace(apiKey),
		httpc:       httpc,
		minInterval: 20 * time.Millisecond, // TMDB has generous rate limits
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *tmdbClient) throttle() {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()
	if since := time.Since(c.lastRequest); since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
}

// doGET performs a keyed GET against the TMDB API with rate limiting. Rate
// limits and server errors are retried with exponential backoff; client errors
// and decode failures are not.
func (c *tmdbClient) doGET(ctx context.Context, endpoint string, params url.Values, v any) error {
	if !c.isConfigured() {
		return errNotConfigured
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	return retry.Do(
		func() error {
			c.throttle()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.URL.RawQuery = params.Encode()

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return fmt.Errorf("tmdb request failed: %s", resp.Status)
			}
			if resp.StatusCode >= 400 {
				return retry.Unrecoverable(fmt.Errorf("tmdb request failed: %s", resp.Status))
			}
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[tmdb] request retry (attempt %d/3): %v", n+2, err)
		}),
	)
}

// searchResult is one raw catalog search hit. Movies populate Title and
// ReleaseDate; shows populate Name, FirstAirDate and OriginCountry.
type searchResult struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Name          string   `json:"name"`
	VoteCount     int      `json:"vote_count"`
	VoteAverage   float64  `json:"vote_average"`
	ReleaseDate   string   `json:"release_date"`
	FirstAirDate  string   `json:"first_air_date"`
	OriginCountry []string `json:"origin_country"`
}

type tmdbSearchResponse struct {
	Results []searchResult `json:"results"`
}

func (c *tmdbClient) searchMovies(ctx context.Context, query string, year int) ([]searchResult, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "search", "movie")
	if err != nil {
		return nil, err
	}
	params := url.Values{"query": []string{query}}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	var payload tmdbSearchResponse
	if err := c.doGET(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) searchShows(ctx context.Context, query string, year int) ([]searchResult, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "search", "tv")
	if err != nil {
		return nil, err
	}
	params := url.Values{"query": []string{query}}
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	var payload tmdbSearchResponse
	if err := c.doGET(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

type tmdbGenre struct {
	Name string `json:"name"`
}

type tmdbCredits struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type tmdbVideos struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

const topCastSize = 5

// movieDetails fetches full movie metadata with credits and videos appended in
// the same call.
func (c *tmdbClient) movieDetails(ctx context.Context, tmdbID int64) (*models.MediaDetail, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "movie", strconv.FormatInt(tmdbID, 10))
	if err != nil {
		return nil, err
	}
	params := url.Values{"append_to_response": []string{"credits,videos"}}

	var payload struct {
		ID           int64       `json:"id"`
		Title        string      `json:"title"`
		Overview     string      `json:"overview"`
		PosterPath   string      `json:"poster_path"`
		BackdropPath string      `json:"backdrop_path"`
		ReleaseDate  string      `json:"release_date"`
		Runtime      int         `json:"runtime"`
		VoteAverage  float64     `json:"vote_average"`
		VoteCount    int         `json:"vote_count"`
		Genres       []tmdbGenre `json:"genres"`
		Credits      tmdbCredits `json:"credits"`
		Videos       tmdbVideos  `json:"videos"`
	}
	if err := c.doGET(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}

	return &models.MediaDetail{
		ID:           payload.ID,
		Title:        payload.Title,
		Overview:     payload.Overview,
		PosterPath:   buildImageURL(payload.PosterPath, tmdbPosterSize),
		BackdropPath: buildImageURL(payload.BackdropPath, tmdbBackdropSize),
		ReleaseDate:  payload.ReleaseDate,
		Runtime:      payload.Runtime,
		VoteAverage:  payload.VoteAverage,
		VoteCount:    payload.VoteCount,
		Genres:       genreNames(payload.Genres),
		Cast:         topCast(payload.Credits),
		Director:     findDirector(payload.Credits),
		TrailerKey:   findTrailerKey(payload.Videos),
	}, nil
}

// showDetails fetches full series metadata with credits and videos appended in
// the same call.
func (c *tmdbClient) showDetails(ctx context.Context, tmdbID int64) (*models.MediaDetail, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "tv", strconv.FormatInt(tmdbID, 10))
	if err != nil {
		return nil, err
	}
	params := url.Values{"append_to_response": []string{"credits,videos"}}

	var payload struct {
		ID           int64       `json:"id"`
		Name         string      `json:"name"`
		Overview     string      `json:"overview"`
		PosterPath   string      `json:"poster_path"`
		BackdropPath string      `json:"backdrop_path"`
		FirstAirDate string      `json:"first_air_date"`
		LastAirDate  string      `json:"last_air_date"`
		SeasonCount  int         `json:"number_of_seasons"`
		EpisodeCount int         `json:"number_of_episodes"`
		VoteAverage  float64     `json:"vote_average"`
		VoteCount    int         `json:"vote_count"`
		Genres       []tmdbGenre `json:"genres"`
		Networks     []tmdbGenre `json:"networks"`
		CreatedBy    []tmdbGenre `json:"created_by"`
		Credits      tmdbCredits `json:"credits"`
		Videos       tmdbVideos  `json:"videos"`
	}
	if err := c.doGET(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}

	return &models.MediaDetail{
		ID:           payload.ID,
		Name:         payload.Name,
		Overview:     payload.Overview,
		PosterPath:   buildImageURL(payload.PosterPath, tmdbPosterSize),
		BackdropPath: buildImageURL(payload.BackdropPath, tmdbBackdropSize),
		FirstAirDate: payload.FirstAirDate,
		LastAirDate:  payload.LastAirDate,
		SeasonCount:  payload.SeasonCount,
		EpisodeCount: payload.EpisodeCount,
		VoteAverage:  payload.VoteAverage,
		VoteCount:    payload.VoteCount,
		Genres:       genreNames(payload.Genres),
		Networks:     genreNames(payload.Networks),
		Cast:         topCast(payload.Credits),
		CreatedBy:    genreNames(payload.CreatedBy),
		TrailerKey:   findTrailerKey(payload.Videos),
	}, nil
}

// episodeDetails fetches metadata for one episode of a series.
func (c *tmdbClient) episodeDetails(ctx context.Context, showID int64, season, episode int) (*models.EpisodeDetail, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "tv", strconv.FormatInt(showID, 10),
		"season", strconv.Itoa(season), "episode", strconv.Itoa(episode))
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		Overview      string  `json:"overview"`
		StillPath     string  `json:"still_path"`
		AirDate       string  `json:"air_date"`
		EpisodeNumber int     `json:"episode_number"`
		SeasonNumber  int     `json:"season_number"`
		Runtime       int     `json:"runtime"`
		VoteAverage   float64 `json:"vote_average"`
		VoteCount     int     `json:"vote_count"`
	}
	if err := c.doGET(ctx, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	return &models.EpisodeDetail{
		ID:            payload.ID,
		Name:          payload.Name,
		Overview:      payload.Overview,
		StillPath:     buildImageURL(payload.StillPath, tmdbStillSize),
		AirDate:       payload.AirDate,
		EpisodeNumber: payload.EpisodeNumber,
		SeasonNumber:  payload.SeasonNumber,
		Runtime:       payload.Runtime,
		VoteAverage:   payload.VoteAverage,
		VoteCount:     payload.VoteCount,
	}, nil
}

func buildImageURL(imagePath, size string) string {
	trimmed := strings.TrimSpace(imagePath)
	if trimmed == "" {
		return ""
	}
	fullPath := path.Join(size, strings.TrimPrefix(trimmed, "/"))
	return fmt.Sprintf("%s/%s", tmdbImageBaseURL, fullPath)
}

func genreNames(entries []tmdbGenre) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name := strings.TrimSpace(entry.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func topCast(credits tmdbCredits) []models.CastMember {
	cast := credits.Cast
	if len(cast) > topCastSize {
		cast = cast[:topCastSize]
	}
	members := make([]models.CastMember, 0, len(cast))
	for _, person := range cast {
		members = append(members, models.CastMember{
			Name:        person.Name,
			Character:   person.Character,
			ProfilePath: buildImageURL(person.ProfilePath, tmdbProfileSize),
		})
	}
	return members
}

func findDirector(credits tmdbCredits) string {
	for _, person := range credits.Crew {
		if person.Job == "Director" {
			return person.Name
		}
	}
	return ""
}

func findTrailerKey(videos tmdbVideos) string {
	for _, video := range videos.Results {
		if video.Type == "Trailer" && video.Site == "YouTube" {
			return video.Key
		}
	}
	return ""
}
