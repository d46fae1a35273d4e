package enrich

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Scoring weights and the matcher's early-exit threshold are one tunable unit:
// highConfidenceScore is calibrated against exactTitleScore, so an exact title
// match alone is enough to stop searching further variants. Changing either
// side requires revisiting the other.
const (
	exactTitleScore     = 100
	containsTitleScore  = 50
	highConfidenceScore = 100

	maxVoteCountScore = 20
	voteCountDivisor  = 100
	voteAverageWeight = 2

	movieRecencyYears = 5
	movieRecencyScore = 10

	regionMatchScore  = 30
	ukOriginalScore   = 20
	ukOriginalMaxYear = 2005
	showRecencyYears  = 10
	showRecencyScore  = 5
)

// scoreMovieCandidate rates one movie search hit against the variant that
// found it. Scores are only comparable within a single search; the recency
// bonus depends on the current date, which makes scores time-dependent.
func scoreMovieCandidate(r searchResult, originalTitle, searchTitle string, now time.Time) float64 {
	score := titleScore(r.Title, searchTitle)
	score += popularityScore(r.VoteCount, r.VoteAverage)
	if year := releaseYear(r.ReleaseDate); year > 0 && year >= now.Year()-movieRecencyYears {
		score += movieRecencyScore
	}
	return score
}

// scoreShowCandidate mirrors the movie scoring and adds a region block:
// titles carrying a UK or US marker prefer candidates from that country, and
// only unmarked titles get the generic recency bonus. The three branches are
// mutually exclusive.
func scoreShowCandidate(r searchResult, originalTitle, searchTitle string, now time.Time) float64 {
	score := titleScore(r.Name, searchTitle)
	score += popularityScore(r.VoteCount, r.VoteAverage)

	year := releaseYear(r.FirstAirDate)
	switch {
	case hasRegionMarker(originalTitle, "UK"):
		if containsCountry(r.OriginCountry, "GB") {
			score += regionMatchScore
		}
		// Older first-air dates usually mean the original run rather than a
		// regional remake.
		if year > 0 && year <= ukOriginalMaxYear {
			score += ukOriginalScore
		}
	case hasRegionMarker(originalTitle, "US"):
		if containsCountry(r.OriginCountry, "US") {
			score += regionMatchScore
		}
	default:
		if year > 0 && year >= now.Year()-showRecencyYears {
			score += showRecencyScore
		}
	}
	return score
}

// titleScore compares a candidate title with the search variant, not the
// original raw title. An exact match also satisfies containment, so a perfect
// match scores 150; that sum is intentional and the matcher's threshold
// accounts for it.
func titleScore(candidate, searchTitle string) float64 {
	var score float64
	if strings.EqualFold(candidate, searchTitle) {
		score += exactTitleScore
	}
	candidateLower := strings.ToLower(candidate)
	searchLower := strings.ToLower(searchTitle)
	if strings.Contains(candidateLower, searchLower) || strings.Contains(searchLower, candidateLower) {
		score += containsTitleScore
	}
	return score
}

func popularityScore(voteCount int, voteAverage float64) float64 {
	score := math.Min(float64(voteCount)/voteCountDivisor, maxVoteCountScore)
	return score + voteAverage*voteAverageWeight
}

// hasRegionMarker matches the region markers users actually write: both
// "The Office (UK)" and "The Office UK" count.
func hasRegionMarker(title, region string) bool {
	return strings.Contains(title, region)
}

func containsCountry(countries []string, code string) bool {
	for _, c := range countries {
		if c == code {
			return true
		}
	}
	return false
}

// releaseYear extracts the year from a catalog date string, accepting either a
// full date or a bare year prefix.
func releaseYear(date string) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Year()
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}
