package api

import (
	"encoding/json"
	"log"
	"net/http"

	"whatwasthat/handlers"
	"whatwasthat/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware converts a handler panic into the structured 500 envelope
// instead of dropping the connection. The panic value is logged, never echoed
// to the client.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[api] recovered from panic on %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(models.ErrorQuery("Internal server error")); err != nil {
					log.Printf("[api] write error response failed: %v", err)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID so log lines from one
// lookup can be correlated across the identify and enrich phases.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		log.Printf("[api] %s %s id=%s", r.Method, r.URL.Path, id)
		next.ServeHTTP(w, r)
	})
}

// Register mounts API endpoints onto the provided router.
func Register(r *mux.Router, askHandler *handlers.AskHandler, debugHandler *handlers.DebugHandler) {
	r.Use(recoveryMiddleware, corsMiddleware, requestIDMiddleware)

	r.HandleFunc("/ask", askHandler.Ask).Methods(http.MethodPost)
	r.HandleFunc("/ask", handleOptions).Methods(http.MethodOptions)
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/debug", debugHandler.Info).Methods(http.MethodGet)
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
