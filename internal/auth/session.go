package auth

import (
	"net/http"
	"time"
)

const (
	// LoginCookieName is the client-readable login indicator.
	LoginCookieName = "login"
	// LoginCookieValue is the only value that counts as logged in.
	LoginCookieValue = "true"

	// SessionCookieName holds the signed session token in hardened mode.
	SessionCookieName = "session"

	// cookieMaxAge is one week, in seconds.
	cookieMaxAge = int(SessionTTL / time.Second)
)

// SetLoginIndicator sets login=true on the response for one week.
//
// The cookie is deliberately readable by client script (HttpOnly false): the
// landing page mirrors it into localStorage. It carries no identity.
func SetLoginIndicator(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     LoginCookieName,
		Value:    LoginCookieValue,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearLoginIndicator expires the login indicator immediately.
// net/http renders MaxAge < 0 as "Max-Age=0".
func ClearLoginIndicator(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     LoginCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// HasLoginIndicator reports whether the request carries login=true.
// Any other value, or no cookie at all, means not logged in.
func HasLoginIndicator(r *http.Request) bool {
	c, err := r.Cookie(LoginCookieName)
	if err != nil {
		return false
	}
	return c.Value == LoginCookieValue
}

// SetSessionToken stores a signed session token in an HttpOnly cookie with
// the same lifetime as the login indicator.
func SetSessionToken(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionToken expires the session cookie.
func ClearSessionToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
