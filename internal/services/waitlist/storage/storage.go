package storage

import (
	"context"
	"time"

	"github.com/hackeurope/platform/internal/platform/errors"
)

// ErrAlreadyJoined indicates the email is already on the waitlist. Callers
// treat it as success, not failure.
var ErrAlreadyJoined = errors.New(errors.CodeWaitlistAlreadyJoined, "email already on the waitlist")

// Member is one waitlist entry. Email is unique across the table.
type Member struct {
	ID       string
	Email    string
	JoinedAt time.Time
}

// MemberStore persists waitlist signups.
type MemberStore interface {
	// JoinWaitlist inserts the member. A duplicate email returns
	// ErrAlreadyJoined and leaves the table unchanged.
	JoinWaitlist(ctx context.Context, member Member) error
	// CountMembers reports the current waitlist size.
	CountMembers(ctx context.Context) (int64, error)
}

// MemberLister reads waitlist entries for operator tooling.
type MemberLister interface {
	// ListMembers returns all members ordered by join time.
	ListMembers(ctx context.Context) ([]Member, error)
}

// Store is the persistence surface of the waitlist service.
type Store interface {
	MemberStore
	MemberLister
	Close() error
}
