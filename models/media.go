package models

// Structures shared between the identification and enrichment layers.
// Field names mirror the JSON the model is asked to produce, so a MediaQuery
// round-trips through encoding/json without translation.

// MediaQuery is the model's structured classification of a free-text question.
// Exactly one of the movie/series field groups is populated; the rest are null.
type MediaQuery struct {
	Status           string  `json:"status"` // success | error
	ErrorMessage     *string `json:"error_message"`
	Type             *string `json:"type"` // movie | series, null on error
	MovieTitle       *string `json:"movie_title"`
	SeriesTitle      *string `json:"series_title"`
	SeasonNumber     *int    `json:"season_number"`
	EpisodeNumber    *int    `json:"episode_number"`
	EpisodeTitle     *string `json:"episode_title"`
	TimestampSuccess *bool   `json:"timestamp_success"`
	Timestamp        *string `json:"timestamp"` // HH:MM:SS or MM:SS
	TimestampError   *string `json:"timestamp_error"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"

	TypeMovie  = "movie"
	TypeSeries = "series"
)

// ErrorQuery builds the structured error payload returned when identification
// fails. Errors are carried as data, never thrown across the boundary.
func ErrorQuery(message string) MediaQuery {
	return MediaQuery{Status: StatusError, ErrorMessage: &message}
}

// CastMember is one top-billed cast entry from the catalog credits.
type CastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"` // full image URL, empty when missing
}

// MediaDetail is the enriched projection of one catalog detail response.
// Movie and series responses share most fields; the type-specific ones are
// omitted when empty.
type MediaDetail struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title,omitempty"` // movies
	Name         string       `json:"name,omitempty"`  // series
	Overview     string       `json:"overview"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path"`
	ReleaseDate  string       `json:"release_date,omitempty"` // movies
	Runtime      int          `json:"runtime,omitempty"`      // movies, minutes
	FirstAirDate string       `json:"first_air_date,omitempty"`
	LastAirDate  string       `json:"last_air_date,omitempty"`
	SeasonCount  int          `json:"number_of_seasons,omitempty"`
	EpisodeCount int          `json:"number_of_episodes,omitempty"`
	VoteAverage  float64      `json:"vote_average"`
	VoteCount    int          `json:"vote_count"`
	Genres       []string     `json:"genres"`
	Networks     []string     `json:"networks,omitempty"` // series
	Cast         []CastMember `json:"cast"`
	Director     string       `json:"director,omitempty"`   // movies
	CreatedBy    []string     `json:"created_by,omitempty"` // series
	TrailerKey   string       `json:"trailer"`              // YouTube video key
}

// EpisodeDetail is the projection of a single episode lookup.
type EpisodeDetail struct {
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

// EnrichedResult is the MediaQuery augmented with catalog metadata. Both
// payloads are nullable: enrichment degrades to null rather than failing.
type EnrichedResult struct {
	MediaQuery
	TMDBData    *MediaDetail   `json:"tmdb_data"`
	EpisodeData *EpisodeDetail `json:"episode_data"`
}
