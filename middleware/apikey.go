package middleware

import (
	"encoding/json"
	"net/http"

	"lyrics-fetch-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// APIKeyMiddleware gates protectedPaths behind the X-API-Key header. An
// empty apiKey disables the gate entirely (the debug endpoints are open),
// matching the Config.Server.APIKey default.
func APIKeyMiddleware(apiKey string, protectedPaths []string) func(http.Handler) http.Handler {
	protected := make(map[string]bool, len(protectedPaths))
	for _, p := range protectedPaths {
		protected[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" || !protected[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("X-API-Key") != apiKey {
				log.Warnf("%s rejected request to %s from %s: missing or invalid API key", logcolors.LogAPIKey, r.URL.Path, r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing API key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
