package enrich

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func fakeClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func TestSearchMoviesRequest(t *testing.T) {
	var gotURL string
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.Path
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q, want test-key", q.Get("api_key"))
		}
		if q.Get("query") != "Heat" {
			t.Errorf("query = %q, want Heat", q.Get("query"))
		}
		if q.Get("year") != "1995" {
			t.Errorf("year = %q, want 1995", q.Get("year"))
		}
		return jsonResponse(http.StatusOK, `{"results":[{"id":949,"title":"Heat","vote_count":7000,"vote_average":7.9,"release_date":"1995-12-15"}]}`), nil
	}))

	results, err := client.searchMovies(context.Background(), "Heat", 1995)
	if err != nil {
		t.Fatalf("searchMovies() error = %v", err)
	}
	if gotURL != "/3/search/movie" {
		t.Errorf("request path = %q, want /3/search/movie", gotURL)
	}
	if len(results) != 1 || results[0].ID != 949 || results[0].Title != "Heat" {
		t.Errorf("results = %+v, want one Heat hit", results)
	}
}

func TestSearchShowsUsesFirstAirDateYear(t *testing.T) {
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/3/search/tv" {
			t.Errorf("request path = %q, want /3/search/tv", r.URL.Path)
		}
		if got := r.URL.Query().Get("first_air_date_year"); got != "2008" {
			t.Errorf("first_air_date_year = %q, want 2008", got)
		}
		return jsonResponse(http.StatusOK, `{"results":[{"id":1396,"name":"Breaking Bad","origin_country":["US"]}]}`), nil
	}))

	results, err := client.searchShows(context.Background(), "Breaking Bad", 2008)
	if err != nil {
		t.Fatalf("searchShows() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "Breaking Bad" {
		t.Errorf("results = %+v, want one Breaking Bad hit", results)
	}
}

func TestSearchWithoutKeyFails(t *testing.T) {
	client := newTMDBClient("", fakeClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request should be sent without an api key")
		return nil, nil
	}))

	if _, err := client.searchMovies(context.Background(), "Heat", 0); !errors.Is(err, errNotConfigured) {
		t.Errorf("searchMovies() error = %v, want errNotConfigured", err)
	}
}

func TestDoGETDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		attempts++
		return jsonResponse(http.StatusNotFound, `{"status_message":"not found"}`), nil
	}))

	if _, err := client.searchMovies(context.Background(), "Heat", 0); err == nil {
		t.Fatal("searchMovies() error = nil, want failure")
	}
	if attempts != 1 {
		t.Errorf("request attempted %d times, want 1 for a client error", attempts)
	}
}

func TestDoGETRetriesServerErrors(t *testing.T) {
	attempts := 0
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		attempts++
		if attempts < 3 {
			return jsonResponse(http.StatusInternalServerError, ""), nil
		}
		return jsonResponse(http.StatusOK, `{"results":[]}`), nil
	}))

	if _, err := client.searchMovies(context.Background(), "Heat", 0); err != nil {
		t.Fatalf("searchMovies() error = %v, want success after retries", err)
	}
	if attempts != 3 {
		t.Errorf("request attempted %d times, want 3", attempts)
	}
}

func TestMovieDetailsProjection(t *testing.T) {
	body := `{
		"id": 603,
		"title": "The Matrix",
		"overview": "A hacker learns the truth.",
		"poster_path": "/poster.jpg",
		"backdrop_path": "/backdrop.jpg",
		"release_date": "1999-03-31",
		"runtime": 136,
		"vote_average": 8.2,
		"vote_count": 24000,
		"genres": [{"name": "Action"}, {"name": "Science Fiction"}],
		"credits": {
			"cast": [
				{"name": "A", "character": "a", "profile_path": "/a.jpg"},
				{"name": "B", "character": "b"},
				{"name": "C", "character": "c"},
				{"name": "D", "character": "d"},
				{"name": "E", "character": "e"},
				{"name": "F", "character": "f"},
				{"name": "G", "character": "g"}
			],
			"crew": [
				{"name": "Someone", "job": "Producer"},
				{"name": "Lana Wachowski", "job": "Director"}
			]
		},
		"videos": {
			"results": [
				{"key": "teaser1", "site": "YouTube", "type": "Teaser"},
				{"key": "vimeo1", "site": "Vimeo", "type": "Trailer"},
				{"key": "trailer1", "site": "YouTube", "type": "Trailer"}
			]
		}
	}`
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/3/movie/603" {
			t.Errorf("request path = %q, want /3/movie/603", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,videos" {
			t.Errorf("append_to_response = %q, want credits,videos", got)
		}
		return jsonResponse(http.StatusOK, body), nil
	}))

	detail, err := client.movieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("movieDetails() error = %v", err)
	}
	if detail.Title != "The Matrix" || detail.Runtime != 136 {
		t.Errorf("detail = %+v, want The Matrix / 136min", detail)
	}
	if detail.PosterPath != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("PosterPath = %q", detail.PosterPath)
	}
	if detail.BackdropPath != "https://image.tmdb.org/t/p/w1280/backdrop.jpg" {
		t.Errorf("BackdropPath = %q", detail.BackdropPath)
	}
	if len(detail.Cast) != topCastSize {
		t.Errorf("cast size = %d, want %d", len(detail.Cast), topCastSize)
	}
	if detail.Cast[0].ProfilePath != "https://image.tmdb.org/t/p/w185/a.jpg" {
		t.Errorf("Cast[0].ProfilePath = %q", detail.Cast[0].ProfilePath)
	}
	if detail.Cast[1].ProfilePath != "" {
		t.Errorf("Cast[1].ProfilePath = %q, want empty for missing image", detail.Cast[1].ProfilePath)
	}
	if detail.Director != "Lana Wachowski" {
		t.Errorf("Director = %q, want Lana Wachowski", detail.Director)
	}
	if detail.TrailerKey != "trailer1" {
		t.Errorf("TrailerKey = %q, want the first YouTube trailer", detail.TrailerKey)
	}
	if len(detail.Genres) != 2 || detail.Genres[0] != "Action" {
		t.Errorf("Genres = %v", detail.Genres)
	}
}

func TestShowDetailsProjection(t *testing.T) {
	body := `{
		"id": 1396,
		"name": "Breaking Bad",
		"overview": "A chemistry teacher turns to crime.",
		"first_air_date": "2008-01-20",
		"last_air_date": "2013-09-29",
		"number_of_seasons": 5,
		"number_of_episodes": 62,
		"vote_average": 8.9,
		"vote_count": 12000,
		"genres": [{"name": "Drama"}],
		"networks": [{"name": "AMC"}],
		"created_by": [{"name": "Vince Gilligan"}],
		"credits": {"cast": [{"name": "Bryan Cranston", "character": "Walter White"}]},
		"videos": {"results": []}
	}`
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/3/tv/1396" {
			t.Errorf("request path = %q, want /3/tv/1396", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, body), nil
	}))

	detail, err := client.showDetails(context.Background(), 1396)
	if err != nil {
		t.Fatalf("showDetails() error = %v", err)
	}
	if detail.Name != "Breaking Bad" || detail.SeasonCount != 5 || detail.EpisodeCount != 62 {
		t.Errorf("detail = %+v", detail)
	}
	if len(detail.Networks) != 1 || detail.Networks[0] != "AMC" {
		t.Errorf("Networks = %v, want [AMC]", detail.Networks)
	}
	if len(detail.CreatedBy) != 1 || detail.CreatedBy[0] != "Vince Gilligan" {
		t.Errorf("CreatedBy = %v, want [Vince Gilligan]", detail.CreatedBy)
	}
	if detail.TrailerKey != "" {
		t.Errorf("TrailerKey = %q, want empty", detail.TrailerKey)
	}
}

func TestEpisodeDetailsPath(t *testing.T) {
	client := newTMDBClient("test-key", fakeClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/3/tv/1396/season/3/episode/10" {
			t.Errorf("request path = %q, want /3/tv/1396/season/3/episode/10", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"id":62096,"name":"Fly","still_path":"/fly.jpg","air_date":"2010-05-23","episode_number":10,"season_number":3,"runtime":47}`), nil
	}))

	episode, err := client.episodeDetails(context.Background(), 1396, 3, 10)
	if err != nil {
		t.Fatalf("episodeDetails() error = %v", err)
	}
	if episode.Name != "Fly" || episode.SeasonNumber != 3 || episode.EpisodeNumber != 10 {
		t.Errorf("episode = %+v", episode)
	}
	if episode.StillPath != "https://image.tmdb.org/t/p/w500/fly.jpg" {
		t.Errorf("StillPath = %q", episode.StillPath)
	}
}

func TestBuildImageURL(t *testing.T) {
	tests := []struct {
		path string
		size string
		want string
	}{
		{"/abc.jpg", tmdbPosterSize, "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"abc.jpg", tmdbProfileSize, "https://image.tmdb.org/t/p/w185/abc.jpg"},
		{"", tmdbPosterSize, ""},
		{"  ", tmdbPosterSize, ""},
	}
	for _, tt := range tests {
		if got := buildImageURL(tt.path, tt.size); got != tt.want {
			t.Errorf("buildImageURL(%q, %q) = %q, want %q", tt.path, tt.size, got, tt.want)
		}
	}
}
