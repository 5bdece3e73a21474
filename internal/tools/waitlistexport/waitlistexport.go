// Package waitlistexport dumps waitlist members for organizer tooling.
package waitlistexport

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	"github.com/hackeurope/platform/internal/services/waitlist/storage/postgres"
	"github.com/hackeurope/platform/internal/services/waitlist/storage/sqlite"
)

// Config holds export command configuration.
type Config struct {
	DatabaseURL string
	DBPath      string
	Timeout     time.Duration
	JSONOutput  bool
	CountOnly   bool
}

type envConfig struct {
	DatabaseURL string        `env:"HACKEUROPE_WAITLIST_DATABASE_URL"`
	DBPath      string        `env:"HACKEUROPE_WAITLIST_DB_PATH"`
	Timeout     time.Duration `env:"HACKEUROPE_WAITLIST_EXPORT_TIMEOUT" envDefault:"1m"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		DatabaseURL: envCfg.DatabaseURL,
		DBPath:      envCfg.DBPath,
		Timeout:     envCfg.Timeout,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "waitlist.db")
	}

	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "hosted postgres DSN (default: HACKEUROPE_WAITLIST_DATABASE_URL)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to waitlist sqlite database (default: HACKEUROPE_WAITLIST_DB_PATH or data/waitlist.db)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output a JSON array instead of CSV")
	fs.BoolVar(&cfg.CountOnly, "count", false, "print only the member count")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the export against the configured store.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cfg.CountOnly {
		count, err := store.CountMembers(ctx)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		_, err = fmt.Fprintln(out, count)
		return err
	}

	members, err := store.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if cfg.JSONOutput {
		return writeJSON(out, members)
	}
	return writeCSV(out, members)
}

func openStore(ctx context.Context, cfg Config) (storage.Store, error) {
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open waitlist postgres store: %w", err)
		}
		return store, nil
	}

	path := filepath.Clean(cfg.DBPath)
	if path == "." || path == "" {
		return nil, errors.New("waitlist db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open waitlist sqlite store: %w", err)
	}
	return store, nil
}

type exportRow struct {
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}

func writeJSON(out io.Writer, members []storage.Member) error {
	rows := make([]exportRow, 0, len(members))
	for _, member := range members {
		rows = append(rows, exportRow{Email: member.Email, JoinedAt: member.JoinedAt.UTC()})
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("encode members: %w", err)
	}
	return nil
}

func writeCSV(out io.Writer, members []storage.Member) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"email", "joined_at"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, member := range members {
		record := []string{member.Email, member.JoinedAt.UTC().Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write member row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
