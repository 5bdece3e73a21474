// Package postgres persists waitlist members in the hosted PostgreSQL
// database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	"github.com/hackeurope/platform/internal/services/waitlist/storage/postgres/migrations"
)

// Store persists waitlist members on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the hosted database and applies embedded migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applyMigrations(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

// applyMigrations runs goose against a short-lived database/sql handle.
// goose drives *sql.DB, not a pgx pool.
func applyMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := goose.UpContext(runCtx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// JoinWaitlist inserts one member row. Emails are stored lowercased; a
// unique violation returns storage.ErrAlreadyJoined.
func (s *Store) JoinWaitlist(ctx context.Context, member storage.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.pool == nil {
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
	joinedAt := member.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}

	const query = `INSERT INTO waitlist_members (id, email, joined_at)
		VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, id, email, joinedAt.UTC()); err != nil {
		return mapJoinError(err)
	}
	return nil
}

// mapJoinError folds a unique violation into the already-joined sentinel and
// wraps everything else.
func mapJoinError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyJoined
	}
	return fmt.Errorf("join waitlist: %w", err)
}

// CountMembers reports the current waitlist size.
func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.pool == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	const query = `SELECT COUNT(1) FROM waitlist_members`
	row := s.pool.QueryRow(ctx, query)
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
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	const query = `SELECT id::text, email, joined_at FROM waitlist_members ORDER BY joined_at ASC, email ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []storage.Member
	for rows.Next() {
		var member storage.Member
		if err := rows.Scan(&member.ID, &member.Email, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		member.JoinedAt = member.JoinedAt.UTC()
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
