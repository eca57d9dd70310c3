// Package middleware provides HTTP middleware for the CalmaLink API.
package middleware

import (
	"net/http"
)

// CORS returns middleware that enforces the origin allowlist.
//
// Allow-listed origins get the CORS headers and a 204 preflight answer.
// Browser requests from any other origin are rejected with an explicit 403
// rather than silently scoped to a default origin, so responses are never
// leaked to unintended origins. Requests without an Origin header
// (server-to-server, curl) pass through untouched.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !wildcard && !allowed[origin] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"origin not allowed"}`))
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Vary", "Origin")
			// Credentials only for explicit origins; pairing them with a
			// wildcard-echoed origin enables CSRF.
			if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
