// Package team owns team identity, membership records, and invite links.
package team

import (
	"crypto/rand"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/hackeurope/platform/internal/platform/errors"
)

// IDLength is the canonical team identifier length.
const IDLength = 8

// idAlphabet spells team identifiers in uppercase alphanumerics.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// InviteParam is the query parameter carrying the team id on invite links.
const InviteParam = "t"

var idPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// ErrInvalidID indicates a team identifier outside the canonical format.
var ErrInvalidID = apperrors.New(apperrors.CodeTeamIDInvalid, "team id must be 8 uppercase alphanumeric characters")

// Member is one entry in a team roster.
type Member struct {
	Email    string
	IsLeader bool
	JoinedAt time.Time
}

// NewID returns a fresh 8-character uppercase alphanumeric team identifier.
func NewID() (string, error) {
	buf := make([]byte, IDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate team id: %w", err)
	}
	for i := range buf {
		buf[i] = idAlphabet[int(buf[i])%len(idAlphabet)]
	}
	return string(buf), nil
}

// NormalizeID uppercases and validates a team identifier from an invite.
func NormalizeID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if !idPattern.MatchString(id) {
		return "", ErrInvalidID
	}
	return id, nil
}

// InviteLink returns the shareable URL for a team on the given base.
// The link carries no signature and no expiry; it only pre-fills the
// team on the landing page.
func InviteLink(baseURL, teamID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse invite base URL: %w", err)
	}
	q := u.Query()
	q.Set(InviteParam, teamID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
