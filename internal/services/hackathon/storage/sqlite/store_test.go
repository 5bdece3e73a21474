package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hackeurope/platform/internal/services/hackathon/storage"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
)

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestRegistrationRoundTripAndOverwrite(t *testing.T) {
	store, err := Open(t.TempDir() + "/hackathon.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	first := storage.Registration{
		ProfileID:    "profile-1",
		Email:        "alice@ed.ac.uk",
		TeamID:       "QX7ZK2MN",
		IsTeamLeader: true,
		CreatedAt:    now,
	}
	if err := store.PutRegistration(context.Background(), first); err != nil {
		t.Fatalf("put registration: %v", err)
	}

	got, err := store.GetRegistration(context.Background(), "profile-1")
	if err != nil {
		t.Fatalf("get registration: %v", err)
	}
	if got != first {
		t.Fatalf("registration = %+v, want %+v", got, first)
	}

	second := storage.Registration{
		ProfileID:    "profile-1",
		Email:        "alice@ed.ac.uk",
		TeamID:       "ABCD1234",
		IsTeamLeader: false,
		CreatedAt:    now.Add(time.Hour),
	}
	if err := store.PutRegistration(context.Background(), second); err != nil {
		t.Fatalf("overwrite registration: %v", err)
	}

	got, err = store.GetRegistration(context.Background(), "profile-1")
	if err != nil {
		t.Fatalf("get registration after overwrite: %v", err)
	}
	if got != second {
		t.Fatalf("registration after overwrite = %+v, want %+v", got, second)
	}
}

func TestGetRegistrationMissingReturnsErrNotFound(t *testing.T) {
	store, err := Open(t.TempDir() + "/hackathon.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	_, err = store.GetRegistration(context.Background(), "profile-missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestChallengeLifecycle(t *testing.T) {
	store, err := Open(t.TempDir() + "/hackathon.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	issued := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	ch := storage.Challenge{
		ProfileID:       "profile-1",
		Email:           "alice@ed.ac.uk",
		InviteTeamID:    "ABCD1234",
		IssuedAt:        issued,
		ExpiresAt:       issued.Add(10 * time.Minute),
		ResendNotBefore: issued.Add(30 * time.Second),
	}
	if err := store.PutChallenge(context.Background(), ch); err != nil {
		t.Fatalf("put challenge: %v", err)
	}

	got, err := store.GetChallenge(context.Background(), "profile-1")
	if err != nil {
		t.Fatalf("get challenge: %v", err)
	}
	if got != ch {
		t.Fatalf("challenge = %+v, want %+v", got, ch)
	}

	replaced := ch
	replaced.IssuedAt = issued.Add(time.Minute)
	replaced.ResendNotBefore = issued.Add(90 * time.Second)
	if err := store.PutChallenge(context.Background(), replaced); err != nil {
		t.Fatalf("replace challenge: %v", err)
	}
	got, err = store.GetChallenge(context.Background(), "profile-1")
	if err != nil {
		t.Fatalf("get replaced challenge: %v", err)
	}
	if got != replaced {
		t.Fatalf("challenge after replace = %+v, want %+v", got, replaced)
	}

	if err := store.DeleteChallenge(context.Background(), "profile-1"); err != nil {
		t.Fatalf("delete challenge: %v", err)
	}
	_, err = store.GetChallenge(context.Background(), "profile-1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpiredChallenges(t *testing.T) {
	store, err := Open(t.TempDir() + "/hackathon.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	expired := storage.Challenge{
		ProfileID:       "profile-expired",
		Email:           "old@ed.ac.uk",
		IssuedAt:        now.Add(-20 * time.Minute),
		ExpiresAt:       now.Add(-10 * time.Minute),
		ResendNotBefore: now.Add(-19 * time.Minute),
	}
	live := storage.Challenge{
		ProfileID:       "profile-live",
		Email:           "new@ed.ac.uk",
		IssuedAt:        now,
		ExpiresAt:       now.Add(10 * time.Minute),
		ResendNotBefore: now.Add(30 * time.Second),
	}
	if err := store.PutChallenge(context.Background(), expired); err != nil {
		t.Fatalf("put expired challenge: %v", err)
	}
	if err := store.PutChallenge(context.Background(), live); err != nil {
		t.Fatalf("put live challenge: %v", err)
	}

	deleted, err := store.DeleteExpiredChallenges(context.Background(), now)
	if err != nil {
		t.Fatalf("delete expired challenges: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	if _, err := store.GetChallenge(context.Background(), "profile-expired"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expired challenge err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetChallenge(context.Background(), "profile-live"); err != nil {
		t.Fatalf("live challenge should survive: %v", err)
	}
}

func TestAddTeamMemberIdempotent(t *testing.T) {
	store, err := Open(t.TempDir() + "/hackathon.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	member := team.Member{Email: "alice@ed.ac.uk", IsLeader: true, JoinedAt: now}
	if err := store.AddTeamMember(context.Background(), "QX7ZK2MN", member); err != nil {
		t.Fatalf("add member: %v", err)
	}

	replay := team.Member{Email: "Alice@ed.ac.uk", IsLeader: false, JoinedAt: now.Add(time.Hour)}
	if err := store.AddTeamMember(context.Background(), "QX7ZK2MN", replay); err != nil {
		t.Fatalf("replay add member: %v", err)
	}

	members, err := store.ListTeamMembers(context.Background(), "QX7ZK2MN")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("members len = %d, want 1", len(members))
	}
	if members[0].Email != "alice@ed.ac.uk" {
		t.Fatalf("email = %q, want alice@ed.ac.uk", members[0].Email)
	}
	if !members[0].IsLeader {
		t.Fatal("replay must not overwrite the original leader flag")
	}
}

func TestListTeamMembersOrderedByJoin(t *testing.T) {
	store, err := Open(t.TempDir() + "/hackathon.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	joins := []team.Member{
		{Email: "carol@ed.ac.uk", IsLeader: true, JoinedAt: now},
		{Email: "bob@ed.ac.uk", JoinedAt: now.Add(time.Minute)},
		{Email: "alice@ed.ac.uk", JoinedAt: now.Add(2 * time.Minute)},
	}
	for _, member := range joins {
		if err := store.AddTeamMember(context.Background(), "QX7ZK2MN", member); err != nil {
			t.Fatalf("add member %s: %v", member.Email, err)
		}
	}

	members, err := store.ListTeamMembers(context.Background(), "QX7ZK2MN")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("members len = %d, want 3", len(members))
	}
	for i, want := range []string{"carol@ed.ac.uk", "bob@ed.ac.uk", "alice@ed.ac.uk"} {
		if members[i].Email != want {
			t.Fatalf("members[%d] = %q, want %q", i, members[i].Email, want)
		}
	}

	other, err := store.ListTeamMembers(context.Background(), "ZZZZ9999")
	if err != nil {
		t.Fatalf("list other team: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other team len = %d, want 0", len(other))
	}
}
