// Package sqlite provides the local fallback store for the waitlist service,
// used when no hosted database is configured.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/hackeurope/platform/internal/platform/storage/sqlitemigrate"
	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	"github.com/hackeurope/platform/internal/services/waitlist/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists waitlist members in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite waitlist store and applies embedded migrations.
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

// JoinWaitlist inserts one member row. Emails are stored lowercased; a
// duplicate returns storage.ErrAlreadyJoined without touching the table.
func (s *Store) JoinWaitlist(ctx context.Context, member storage.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(member.ID)
	if id == "" {
		return fmt.Errorf("member id is required")
	}
	email := strings.ToLower(strings.TrimSpace(member.Email))
	if email == "" {
		return fmt.Errorf("member email is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO waitlist_members (id, email, joined_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		id,
		email,
		toMillis(member.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("join waitlist: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("join waitlist: %w", err)
	}
	if inserted == 0 {
		return storage.ErrAlreadyJoined
	}
	return nil
}

// CountMembers reports the current waitlist size.
func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(1) FROM waitlist_members`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

// ListMembers returns every member ordered by join time.
func (s *Store) ListMembers(ctx context.Context) ([]storage.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, email, joined_at FROM waitlist_members ORDER BY joined_at ASC, email ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []storage.Member
	for rows.Next() {
		var member storage.Member
		var joinedAt int64
		if err := rows.Scan(&member.ID, &member.Email, &joinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		member.JoinedAt = fromMillis(joinedAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

var _ storage.MemberStore = (*Store)(nil)
var _ storage.MemberLister = (*Store)(nil)
var _ storage.Store = (*Store)(nil)
