// Package profilecookie centralizes the browser profile cookie behavior.
//
// The profile cookie carries an opaque identifier for one browser profile.
// It is not an authentication credential: it only scopes registration state
// the same way local storage would scope it client-side.
package profilecookie

import (
	"net/http"
	"strings"
	"time"
)

// Name is the canonical profile cookie name.
const Name = "he_profile"

// TTL controls how long the profile identifier persists on the browser.
const TTL = 180 * 24 * time.Hour

// Read returns the trimmed profile cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the profile cookie for the current request context.
func Write(w http.ResponseWriter, r *http.Request, profileID string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(profileID),
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   r != nil && r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the profile cookie for the current request context.
func Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r != nil && r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
