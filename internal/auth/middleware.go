package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of type contextKey, so no other
// package can read or shadow the values stored under it.
type contextKey string

const userIDKey contextKey = "userID"

// PublicPaths lists the paths the gate never blocks.
type PublicPaths struct {
	Exact    []string // matched against the whole path
	Prefixes []string // matched with strings.HasPrefix
}

// DefaultPublicPaths returns the landing page, crawler files, health and
// metrics endpoints, static assets and the whole /api tree.
func DefaultPublicPaths() PublicPaths {
	return PublicPaths{
		Exact:    []string{"/", "/favicon.ico", "/robots.txt", "/healthz", "/metrics"},
		Prefixes: []string{"/static/", "/api"},
	}
}

// IsPublic reports whether path bypasses the gate.
func (p PublicPaths) IsPublic(path string) bool {
	for _, e := range p.Exact {
		if path == e {
			return true
		}
	}
	for _, prefix := range p.Prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireLogin is the request gate.
//
// Public paths pass through untouched. Any other request without the
// login=true indicator is redirected to "/" with its query string kept.
//
// When tokens is non-nil the gate is hardened: the request must also carry
// a valid session token, and the token's user ID is stored in the request
// context (see UserIDFromContext). A missing or invalid token redirects
// exactly like a missing indicator.
//
// MIDDLEWARE ORDER:
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp.
// RequireLogin is mounted globally, after logging and metrics, so redirects
// are still logged and counted.
func RequireLogin(public PublicPaths, tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if !HasLoginIndicator(r) {
				redirectToLanding(w, r)
				return
			}

			if tokens != nil {
				userID, err := extractUserID(r, tokens)
				if err != nil {
					redirectToLanding(w, r)
					return
				}
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the user ID placed in the context by a
// hardened gate. Returns ("", false) when the gate ran in indicator-only
// mode or the path was public.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// redirectToLanding sends a 307 to "/" keeping the original query.
func redirectToLanding(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// extractUserID reads the session cookie and validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
