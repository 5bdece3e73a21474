package waitlistexport

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	"github.com/hackeurope/platform/internal/services/waitlist/storage/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("HACKEUROPE_WAITLIST_DATABASE_URL", "")
	t.Setenv("HACKEUROPE_WAITLIST_DB_PATH", "")
	t.Setenv("HACKEUROPE_WAITLIST_EXPORT_TIMEOUT", "")

	fs := flag.NewFlagSet("waitlist-export", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != filepath.Join("data", "waitlist.db") {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Timeout != time.Minute {
		t.Fatalf("expected default timeout 1m, got %v", cfg.Timeout)
	}
	if cfg.JSONOutput || cfg.CountOnly {
		t.Fatalf("expected csv defaults, got json=%t count=%t", cfg.JSONOutput, cfg.CountOnly)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("HACKEUROPE_WAITLIST_DATABASE_URL", "")
	t.Setenv("HACKEUROPE_WAITLIST_DB_PATH", "")
	t.Setenv("HACKEUROPE_WAITLIST_EXPORT_TIMEOUT", "")

	fs := flag.NewFlagSet("waitlist-export", flag.ContinueOnError)
	args := []string{
		"-database-url", "postgres://hackeurope@localhost/waitlist",
		"-db-path", "custom.db",
		"-json",
		"-count",
		"-timeout", "30s",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DatabaseURL != "postgres://hackeurope@localhost/waitlist" {
		t.Fatalf("expected dsn override, got %q", cfg.DatabaseURL)
	}
	if cfg.DBPath != "custom.db" {
		t.Fatalf("expected db path override, got %q", cfg.DBPath)
	}
	if !cfg.JSONOutput || !cfg.CountOnly {
		t.Fatalf("expected json and count flags set, got json=%t count=%t", cfg.JSONOutput, cfg.CountOnly)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected timeout 30s, got %v", cfg.Timeout)
	}
}

func TestParseConfigEnvValues(t *testing.T) {
	t.Setenv("HACKEUROPE_WAITLIST_DATABASE_URL", "")
	t.Setenv("HACKEUROPE_WAITLIST_DB_PATH", "env-waitlist.db")
	t.Setenv("HACKEUROPE_WAITLIST_EXPORT_TIMEOUT", "2m")

	fs := flag.NewFlagSet("waitlist-export", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "env-waitlist.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("expected env timeout 2m, got %v", cfg.Timeout)
	}
}

func TestParseConfigBadArgs(t *testing.T) {
	fs := flag.NewFlagSet("waitlist-export", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if _, err := ParseConfig(fs, []string{"-invalid"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}

func seedStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waitlist.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	members := []storage.Member{
		{ID: "member-1", Email: "alice@example.com", JoinedAt: now},
		{ID: "member-2", Email: "bob@example.com", JoinedAt: now.Add(time.Minute)},
	}
	for _, member := range members {
		if err := store.JoinWaitlist(context.Background(), member); err != nil {
			t.Fatalf("join waitlist %q: %v", member.Email, err)
		}
	}
	return path
}

func TestRunWritesCSV(t *testing.T) {
	path := seedStore(t)
	buf := &bytes.Buffer{}
	if err := Run(context.Background(), Config{DBPath: path}, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", buf.String())
	}
	if lines[0] != "email,joined_at" {
		t.Fatalf("expected csv header, got %q", lines[0])
	}
	if lines[1] != "alice@example.com,2026-03-01T09:00:00Z" {
		t.Fatalf("expected alice row, got %q", lines[1])
	}
	if lines[2] != "bob@example.com,2026-03-01T09:01:00Z" {
		t.Fatalf("expected bob row, got %q", lines[2])
	}
}

func TestRunWritesJSON(t *testing.T) {
	path := seedStore(t)
	buf := &bytes.Buffer{}
	if err := Run(context.Background(), Config{DBPath: path, JSONOutput: true}, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	var rows []struct {
		Email    string    `json:"email"`
		JoinedAt time.Time `json:"joinedAt"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	if rows[0].Email != "alice@example.com" || rows[1].Email != "bob@example.com" {
		t.Fatalf("unexpected row order: %+v", rows)
	}
	want := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	if !rows[0].JoinedAt.Equal(want) {
		t.Fatalf("expected join time %v, got %v", want, rows[0].JoinedAt)
	}
}

func TestRunCountOnly(t *testing.T) {
	path := seedStore(t)
	buf := &bytes.Buffer{}
	if err := Run(context.Background(), Config{DBPath: path, CountOnly: true}, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "2" {
		t.Fatalf("expected count 2, got %q", got)
	}
}

func TestRunEmptyStoreWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waitlist.db")
	buf := &bytes.Buffer{}
	if err := Run(context.Background(), Config{DBPath: path}, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "email,joined_at" {
		t.Fatalf("expected header only, got %q", got)
	}
}
