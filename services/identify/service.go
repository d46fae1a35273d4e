package identify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"whatwasthat/models"
)

const defaultModel = "gpt-4o-mini"

// fallbackModels are tried in order after the preferred model. The list is
// deliberately short: each extra entry is another upstream round trip on the
// failure path.
var fallbackModels = []string{"gpt-5.0-mini", "gpt-4o-mini"}

// Service classifies free-text questions into structured MediaQuery payloads
// via an OpenAI-compatible Responses API.
type Service struct {
	client *modelClient
	models []string
}

// NewService builds an identification service. httpc may be nil, in which case
// a client with a bounded timeout is used.
func NewService(baseURL, apiKey, preferredModel string, httpc *http.Client) *Service {
	return &Service{
		client: newModelClient(baseURL, apiKey, httpc),
		models: modelCandidates(preferredModel),
	}
}

// modelCandidates returns the ordered model list: preferred first, then the
// fixed fallbacks, deduplicated.
func modelCandidates(preferred string) []string {
	preferred = strings.TrimSpace(preferred)
	if preferred == "" {
		preferred = defaultModel
	}
	candidates := []string{preferred}
	for _, m := range fallbackModels {
		if m != preferred {
			candidates = append(candidates, m)
		}
	}
	return candidates
}

// Lookup asks the model to classify a question. It never returns an error:
// identification failures come back as status=error payloads. Only a
// model-unavailable failure moves on to the next candidate model; any other
// failure is terminal.
func (s *Service) Lookup(ctx context.Context, question string) models.MediaQuery {
	for _, model := range s.models {
		text, err := s.client.createResponse(ctx, model, systemPrompt, question)
		if err != nil {
			log.Printf("[identify] model call failed model=%s err=%v", model, err)
			if isModelUnavailable(err) {
				continue
			}
			return models.ErrorQuery(err.Error())
		}
		if strings.TrimSpace(text) == "" {
			return models.ErrorQuery("Empty model response")
		}
		var query models.MediaQuery
		if err := json.Unmarshal([]byte(text), &query); err != nil {
			return models.ErrorQuery("Model returned non-JSON output")
		}
		return query
	}
	return models.ErrorQuery(fmt.Sprintf("Requested model not available. Tried: %s", strings.Join(s.models, ", ")))
}
