package identify

// The model must output exactly one JSON object conforming to this schema;
// conditional field semantics (movie fields iff type=movie, and so on) are
// enforced by the prompt because the structured-outputs schema subset has no
// conditional validation.

const schemaName = "MediaLookupResponse"

const timestampPattern = `^(?:\d{2}:)?[0-5]?\d:[0-5]\d$`

var responseSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"status":        map[string]any{"type": "string", "enum": []string{"success", "error"}},
		"error_message": map[string]any{"type": []string{"string", "null"}, "description": "Set when status is 'error', otherwise null"},
		"type": map[string]any{
			"anyOf": []map[string]any{
				{"type": "string", "enum": []string{"movie", "series"}},
				{"type": "null"},
			},
			"description": "Content type or null on error",
		},
		"movie_title":  map[string]any{"type": []string{"string", "null"}, "description": "Movie title when type='movie', else null"},
		"series_title": map[string]any{"type": []string{"string", "null"}, "description": "Series title when type='series', else null"},
		"season_number": map[string]any{
			"anyOf": []map[string]any{
				{"type": "integer", "minimum": 1},
				{"type": "null"},
			},
			"description": "Season when type='series', else null",
		},
		"episode_number": map[string]any{
			"anyOf": []map[string]any{
				{"type": "integer", "minimum": 1},
				{"type": "null"},
			},
			"description": "Episode when type='series', else null",
		},
		"episode_title": map[string]any{"type": []string{"string", "null"}, "description": "Episode title when type='series', else null"},
		"timestamp_success": map[string]any{
			"anyOf": []map[string]any{
				{"type": "boolean"},
				{"type": "null"},
			},
			"description": "Whether a timestamp could be provided (null on error)",
		},
		"timestamp": map[string]any{
			"type":        []string{"string", "null"},
			"description": "Timestamp in HH:MM:SS or MM:SS. If only approximate is known, give best estimate in this format.",
			"pattern":     timestampPattern,
		},
		"timestamp_error": map[string]any{"type": []string{"string", "null"}, "description": "Present when timestamp_success is false, else null"},
	},
	"required": []string{
		"status", "error_message", "type", "movie_title", "series_title",
		"season_number", "episode_number", "episode_title",
		"timestamp_success", "timestamp", "timestamp_error",
	},
}

const systemPrompt = "You are a film and TV knowledge assistant that ALWAYS provides your best guess. " +
	"Given a natural-language question about TV episodes or movies, identify the most likely piece of content. " +
	"NEVER return status='error' - always make your best educated guess even if you're not 100% certain. " +
	"If it is a series, return season number, episode number, and episode title. " +
	"If it is a movie, return the movie title. " +
	"Use your knowledge up to your training cutoff and make reasonable inferences. " +
	"For recent content or episodes you might not have complete data for, provide your best estimate based on patterns, typical episode structures, and context clues. " +
	"For shows like South Park, The Simpsons, etc., use your knowledge of their typical episode themes and seasons to make educated guesses. " +
	"If the user appears to request a timestamp for a moment in the content, set timestamp_success accordingly. " +
	"Only produce JSON that matches the provided JSON Schema, with no extra text. " +
	"Always return status='success' with your best identification attempt. " +
	"If you can identify the content but not the exact timestamp, return status='success' with timestamp_success=false and a descriptive timestamp_error. " +
	"Even if you're unsure about exact episode numbers or details, provide your most reasonable guess rather than refusing to answer. " +
	"Remember: It's better to provide a reasonable guess than no answer at all."

// responseTextFormat is the text.format block of a Responses API request that
// pins the model to the schema above.
func responseTextFormat() map[string]any {
	return map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"strict": true,
		"schema": responseSchema,
	}
}
