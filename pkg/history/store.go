// Package history keeps a local sqlite record of configurations that were
// saved to or loaded from the backend. Recording an ID that is already
// present replaces the stored copy and moves it to the front.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/picogrid/param-sweep/pkg/models"

	_ "modernc.org/sqlite"
)

// Entry is one stored configuration.
type Entry struct {
	Config    models.Configuration
	UpdatedAt time.Time
}

// Store is the history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.param-sweep/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".param-sweep", "history.db"), nil
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set history db journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set history db busy timeout: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS configs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	config_json TEXT NOT NULL,
	seq INTEGER NOT NULL,
	updated_at TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts cfg or replaces the stored copy with the same ID.
func (s *Store) Record(ctx context.Context, cfg models.Configuration) error {
	if cfg.ID == "" {
		return errors.New("record history: configuration has no id")
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal history config: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO configs (id, name, config_json, seq, updated_at)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM configs), ?)
		 ON CONFLICT(id) DO UPDATE SET
		 name = excluded.name,
		 config_json = excluded.config_json,
		 seq = excluded.seq,
		 updated_at = excluded.updated_at`,
		cfg.ID,
		cfg.Name,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save history config: %w", err)
	}
	return nil
}

// List returns stored configurations, most recent first. A limit of zero or
// less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config_json, updated_at FROM configs ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var id, configJSON, updatedAt string
		if err := rows.Scan(&id, &configJSON, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e, err := decodeEntry(id, configJSON, updatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return out, nil
}

// Get returns the stored configuration with id.
func (s *Store) Get(ctx context.Context, id string) (Entry, bool, error) {
	var configJSON, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT config_json, updated_at FROM configs WHERE id = ?`, id).Scan(&configJSON, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("query history config %q: %w", id, err)
	}
	e, err := decodeEntry(id, configJSON, updatedAt)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Latest returns the most recently recorded configuration.
func (s *Store) Latest(ctx context.Context) (Entry, bool, error) {
	entries, err := s.List(ctx, 1)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

// Delete removes id and reports whether it was present.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM configs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete history config: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete history config: %w", err)
	}
	return n > 0, nil
}

func decodeEntry(id, configJSON, updatedAt string) (Entry, error) {
	var cfg models.Configuration
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return Entry{}, fmt.Errorf("unmarshal history config %q: %w", id, err)
	}
	cfg.Normalize()
	if cfg.ID == "" {
		cfg.ID = id
	}
	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse history timestamp %q: %w", id, err)
	}
	return Entry{Config: cfg, UpdatedAt: ts}, nil
}
