// Package sqlite provides a SQLite-backed hackathon storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/hackeurope/platform/internal/platform/storage/sqlitemigrate"
	"github.com/hackeurope/platform/internal/services/hackathon/storage"
	"github.com/hackeurope/platform/internal/services/hackathon/storage/sqlite/migrations"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
	_ "modernc.org/sqlite"
)

// Store persists hackathon registration state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite hackathon store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRegistration upserts the registration for one profile. A profile has at
// most one registration, so a replay replaces the previous row.
func (s *Store) PutRegistration(ctx context.Context, reg storage.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	profileID := strings.TrimSpace(reg.ProfileID)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if strings.TrimSpace(reg.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(reg.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO registrations (profile_id, email, team_id, is_team_leader, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET
		   email = excluded.email,
		   team_id = excluded.team_id,
		   is_team_leader = excluded.is_team_leader,
		   created_at = excluded.created_at`,
		profileID,
		reg.Email,
		reg.TeamID,
		boolToInt(reg.IsTeamLeader),
		toMillis(reg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put registration: %w", err)
	}
	return nil
}

// GetRegistration returns the registration for one profile.
func (s *Store) GetRegistration(ctx context.Context, profileID string) (storage.Registration, error) {
	if err := ctx.Err(); err != nil {
		return storage.Registration{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Registration{}, fmt.Errorf("storage is not configured")
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return storage.Registration{}, fmt.Errorf("profile id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT profile_id, email, team_id, is_team_leader, created_at
		 FROM registrations
		 WHERE profile_id = ?`,
		profileID,
	)
	var reg storage.Registration
	var isLeader int64
	var createdAt int64
	err := row.Scan(
		&reg.ProfileID,
		&reg.Email,
		&reg.TeamID,
		&isLeader,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Registration{}, storage.ErrNotFound
		}
		return storage.Registration{}, fmt.Errorf("get registration: %w", err)
	}
	reg.IsTeamLeader = isLeader != 0
	reg.CreatedAt = fromMillis(createdAt)
	return reg, nil
}

// PutChallenge upserts the pending challenge for one profile. Requesting a
// fresh code replaces whatever challenge was outstanding.
func (s *Store) PutChallenge(ctx context.Context, ch storage.Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	profileID := strings.TrimSpace(ch.ProfileID)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if strings.TrimSpace(ch.Email) == "" {
		return fmt.Errorf("email is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO challenges (profile_id, email, invite_team_id, issued_at, expires_at, resend_not_before)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET
		   email = excluded.email,
		   invite_team_id = excluded.invite_team_id,
		   issued_at = excluded.issued_at,
		   expires_at = excluded.expires_at,
		   resend_not_before = excluded.resend_not_before`,
		profileID,
		ch.Email,
		ch.InviteTeamID,
		toMillis(ch.IssuedAt),
		toMillis(ch.ExpiresAt),
		toMillis(ch.ResendNotBefore),
	)
	if err != nil {
		return fmt.Errorf("put challenge: %w", err)
	}
	return nil
}

// GetChallenge returns the pending challenge for one profile.
func (s *Store) GetChallenge(ctx context.Context, profileID string) (storage.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return storage.Challenge{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Challenge{}, fmt.Errorf("storage is not configured")
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return storage.Challenge{}, fmt.Errorf("profile id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT profile_id, email, invite_team_id, issued_at, expires_at, resend_not_before
		 FROM challenges
		 WHERE profile_id = ?`,
		profileID,
	)
	var ch storage.Challenge
	var issuedAt int64
	var expiresAt int64
	var resendNotBefore int64
	err := row.Scan(
		&ch.ProfileID,
		&ch.Email,
		&ch.InviteTeamID,
		&issuedAt,
		&expiresAt,
		&resendNotBefore,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Challenge{}, storage.ErrNotFound
		}
		return storage.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	ch.IssuedAt = fromMillis(issuedAt)
	ch.ExpiresAt = fromMillis(expiresAt)
	ch.ResendNotBefore = fromMillis(resendNotBefore)
	return ch, nil
}

// DeleteChallenge removes the pending challenge for one profile.
func (s *Store) DeleteChallenge(ctx context.Context, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM challenges WHERE profile_id = ?`,
		profileID,
	)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// DeleteExpiredChallenges removes challenges whose deadline has passed and
// returns how many rows were deleted.
func (s *Store) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM challenges WHERE expires_at <= ?`,
		toMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired challenges: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired challenges: %w", err)
	}
	return deleted, nil
}

// AddTeamMember inserts one roster row. Emails are stored lowercased and a
// replay of the same member leaves the roster unchanged.
func (s *Store) AddTeamMember(ctx context.Context, teamID string, member team.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("team id is required")
	}
	email := strings.ToLower(strings.TrimSpace(member.Email))
	if email == "" {
		return fmt.Errorf("member email is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO team_members (team_id, email, is_leader, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(team_id, email) DO NOTHING`,
		teamID,
		email,
		boolToInt(member.IsLeader),
		toMillis(member.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

// ListTeamMembers returns the roster for one team in join order.
func (s *Store) ListTeamMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT email, is_leader, joined_at
		 FROM team_members
		 WHERE team_id = ?
		 ORDER BY joined_at ASC, rowid ASC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := make([]team.Member, 0, 4)
	for rows.Next() {
		var member team.Member
		var isLeader int64
		var joinedAt int64
		if err := rows.Scan(&member.Email, &isLeader, &joinedAt); err != nil {
			return nil, fmt.Errorf("list team members: %w", err)
		}
		member.IsLeader = isLeader != 0
		member.JoinedAt = fromMillis(joinedAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

var _ storage.RegistrationStore = (*Store)(nil)
var _ storage.ChallengeStore = (*Store)(nil)
var _ storage.TeamStore = (*Store)(nil)
var _ storage.Store = (*Store)(nil)
