package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"whatwasthat/models"
	"whatwasthat/services/enrich"
	"whatwasthat/services/identify"
)

type lookupService interface {
	Lookup(ctx context.Context, question string) models.MediaQuery
}

type enrichService interface {
	Enrich(ctx context.Context, query models.MediaQuery) models.EnrichedResult
}

var (
	_ lookupService = (*identify.Service)(nil)
	_ enrichService = (*enrich.Service)(nil)
)

// AskHandler serves the single public operation: classify a question into a
// media identification, then enrich it with catalog metadata.
type AskHandler struct {
	Lookup lookupService
	Enrich enrichService
}

func NewAskHandler(lookup lookupService, enrichSvc enrichService) *AskHandler {
	return &AskHandler{Lookup: lookup, Enrich: enrichSvc}
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorQuery("Body must include a 'question' string"))
		return
	}

	query := h.Lookup.Lookup(r.Context(), req.Question)
	if query.Status == models.StatusError {
		// Identification errors are terminal; enrichment is never attempted.
		writeJSON(w, http.StatusNotFound, query)
		return
	}

	writeJSON(w, http.StatusOK, h.Enrich.Enrich(r.Context(), query))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ask] write response failed: %v", err)
	}
}
