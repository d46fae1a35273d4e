package handlers

import (
	"net/http"
	"os"
	"strconv"
	"time"
)

// Health reports service liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DebugHandler exposes a lightweight endpoint to verify routing and
// environment wiring without leaking any credential values.
type DebugHandler struct {
	started time.Time
}

func NewDebugHandler() *DebugHandler {
	return &DebugHandler{started: time.Now()}
}

func (h *DebugHandler) Info(w http.ResponseWriter, r *http.Request) {
	t0 := time.Now()
	info := map[string]any{
		"status":   "ok",
		"message":  "Debug route responding",
		"method":   r.Method,
		"now":      time.Now().UTC().Format(time.RFC3339),
		"uptime_s": time.Since(h.started).Seconds(),
		"env_presence": map[string]bool{
			"OPENAI_API_KEY":  os.Getenv("OPENAI_API_KEY") != "",
			"OPENAI_BASE_URL": os.Getenv("OPENAI_BASE_URL") != "",
			"OPENAI_MODEL":    os.Getenv("OPENAI_MODEL") != "",
			"TMDB_API_KEY":    os.Getenv("TMDB_API_KEY") != "",
		},
	}
	w.Header().Set("x-debug-elapsed-ms", strconv.FormatInt(time.Since(t0).Milliseconds(), 10))
	writeJSON(w, http.StatusOK, info)
}
