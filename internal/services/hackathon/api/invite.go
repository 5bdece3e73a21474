package api

import (
	"net/http"
	"time"

	"github.com/hackeurope/platform/internal/services/hackathon/team"
)

// inviteCookieName carries a pending invite team id between the invite link
// landing and the verification that consumes it.
const inviteCookieName = "he_invite"

const inviteCookieTTL = 7 * 24 * time.Hour

// readInviteCookie returns the pending invite team id, or empty when there is
// none or the stored value is not a well-formed team id.
func readInviteCookie(r *http.Request) string {
	cookie, err := r.Cookie(inviteCookieName)
	if err != nil {
		return ""
	}
	teamID, err := team.NormalizeID(cookie.Value)
	if err != nil {
		return ""
	}
	return teamID
}

func writeInviteCookie(w http.ResponseWriter, r *http.Request, teamID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     inviteCookieName,
		Value:    teamID,
		Path:     "/",
		MaxAge:   int(inviteCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearInviteCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     inviteCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
