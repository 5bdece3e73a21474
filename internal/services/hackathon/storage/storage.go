package storage

import (
	"context"
	"time"

	"github.com/hackeurope/platform/internal/platform/errors"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// Registration is the durable result of a completed flow for one browser
// profile. Exactly one exists per profile; saving replaces it.
type Registration struct {
	ProfileID    string
	Email        string
	TeamID       string
	IsTeamLeader bool
	CreatedAt    time.Time
}

// Challenge is the pending flow state between code issuance and
// verification. A profile has at most one; its presence is what puts the
// flow in the awaiting state.
type Challenge struct {
	ProfileID       string
	Email           string
	InviteTeamID    string
	IssuedAt        time.Time
	ExpiresAt       time.Time
	ResendNotBefore time.Time
}

// RegistrationStore persists one registration per profile.
type RegistrationStore interface {
	PutRegistration(ctx context.Context, reg Registration) error
	GetRegistration(ctx context.Context, profileID string) (Registration, error)
}

// ChallengeStore persists pending verification state per profile.
type ChallengeStore interface {
	PutChallenge(ctx context.Context, ch Challenge) error
	GetChallenge(ctx context.Context, profileID string) (Challenge, error)
	DeleteChallenge(ctx context.Context, profileID string) error
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

// TeamStore persists team rosters. Membership is unique per team and
// lowercased email; replays of the same member must be no-ops. Listing
// returns members in join order, which is also display order.
type TeamStore interface {
	AddTeamMember(ctx context.Context, teamID string, member team.Member) error
	ListTeamMembers(ctx context.Context, teamID string) ([]team.Member, error)
}

// Store aggregates the persistence surfaces of the hackathon service.
type Store interface {
	RegistrationStore
	ChallengeStore
	TeamStore
	Close() error
}
