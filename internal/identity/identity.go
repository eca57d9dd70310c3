// Package identity provides anonymous per-device identity primitives.
//
// The chat core is stateless; the anonymous id exists only so the opt-in
// transcript log can group turns from the same device. No account, no
// lookup, no server-side state behind the cookie.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

const (
	// AnonCookieName is the anonymous visitor cookie.
	AnonCookieName   = "calma_anon_id"
	anonCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const visitorIDKey contextKey = iota

var anonIDPattern = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)

// VisitorIDFromContext extracts the anonymous visitor ID from the request
// context, or "" when the middleware did not run.
func VisitorIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(visitorIDKey).(string); ok {
		return v
	}
	return ""
}

func generateAnonID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}

func setAnonCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// Middleware injects an anonymous per-device visitor ID. An invalid or
// missing cookie is replaced rather than rejected: identity can never be a
// reason a chat request fails.
func Middleware(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(AnonCookieName); err == nil && isValidAnonID(c.Value) {
				id = c.Value
			} else if generated, err := generateAnonID(); err == nil {
				id = generated
			}

			if id != "" {
				setAnonCookie(w, id, secureCookies)
			}

			ctx := context.WithValue(r.Context(), visitorIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
