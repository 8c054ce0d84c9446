package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rackerlabs/rsspot/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS http_cache (
  key TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  expires_at REAL NOT NULL,
  created_at REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_http_cache_expires_at ON http_cache(expires_at);

CREATE TABLE IF NOT EXISTS command_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  created_at REAL NOT NULL,
  command TEXT NOT NULL,
  argv_json TEXT NOT NULL,
  profile TEXT,
  org TEXT,
  region TEXT
);

CREATE INDEX IF NOT EXISTS idx_command_history_created_at ON command_history(created_at);
CREATE INDEX IF NOT EXISTS idx_command_history_command ON command_history(command);
`

// Store is the SQLite-backed local state: user preferences, the HTTP
// response cache, and the CLI command history. A Store is safe for
// concurrent use; database/sql serializes access to the single
// connection.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the state database at path. An empty path
// selects an in-memory store that lives for the process only.
func New(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeState, "cannot create state directory", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeState, "cannot open state database", err)
	}
	// A single connection keeps the in-memory database stable and avoids
	// sqlite write contention for file-backed stores.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrap(errors.ErrCodeState, "cannot configure state database", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeState, "cannot initialize state schema", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetPreference stores or replaces a preference value.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, unixNow())
	if err != nil {
		return errors.Wrap(errors.ErrCodeState, "cannot store preference", err)
	}
	return nil
}

// GetPreference returns a preference value, with ok reporting presence.
func (s *Store) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeState, "cannot read preference", err)
	}
	return value, true, nil
}

// CacheGet returns a cached payload when present and unexpired. Expired
// entries are deleted on access.
func (s *Store) CacheGet(ctx context.Context, key string) (string, bool, error) {
	var payload string
	var expiresAt float64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM http_cache WHERE key = ?`, key).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeState, "cannot read cache entry", err)
	}

	if expiresAt < unixNow() {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM http_cache WHERE key = ?`, key); err != nil {
			return "", false, errors.Wrap(errors.ErrCodeState, "cannot evict expired cache entry", err)
		}
		return "", false, nil
	}
	return payload, true, nil
}

// CacheSet stores a payload with the given lifetime.
func (s *Store) CacheSet(ctx context.Context, key, payload string, ttl time.Duration) error {
	now := unixNow()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO http_cache (key, payload, expires_at, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
		  payload=excluded.payload,
		  expires_at=excluded.expires_at,
		  created_at=excluded.created_at`,
		key, payload, now+ttl.Seconds(), now)
	if err != nil {
		return errors.Wrap(errors.ErrCodeState, "cannot store cache entry", err)
	}
	return nil
}

// CacheInvalidatePrefixes removes all cache entries whose key starts with
// any of the given prefixes.
func (s *Store) CacheInvalidatePrefixes(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM http_cache WHERE key LIKE ?`, prefix+"%"); err != nil {
			return errors.Wrap(errors.ErrCodeState, "cannot invalidate cache prefix", err)
		}
	}
	return nil
}

// CacheGC deletes expired cache entries, returning the number removed.
func (s *Store) CacheGC(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM http_cache WHERE expires_at < ?`, unixNow())
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeState, "cannot collect expired cache entries", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// HistoryEntry is one recorded CLI invocation.
type HistoryEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Command   string    `json:"command" yaml:"command"`
	Args      []string  `json:"args,omitempty" yaml:"args,omitempty"`
	Profile   string    `json:"profile,omitempty" yaml:"profile,omitempty"`
	Org       string    `json:"org,omitempty" yaml:"org,omitempty"`
	Region    string    `json:"region,omitempty" yaml:"region,omitempty"`
}

// HistoryAdd records a command invocation and prunes the table down to
// maxEntries oldest-first.
func (s *Store) HistoryAdd(ctx context.Context, entry HistoryEntry, maxEntries int) error {
	argv, err := json.Marshal(entry.Args)
	if err != nil {
		return errors.Wrap(errors.ErrCodeState, "cannot encode command arguments", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO command_history (created_at, command, argv_json, profile, org, region)
		VALUES (?, ?, ?, ?, ?, ?)`,
		unixNow(), entry.Command, string(argv), entry.Profile, entry.Org, entry.Region)
	if err != nil {
		return errors.Wrap(errors.ErrCodeState, "cannot record command history", err)
	}
	return s.historyPrune(ctx, maxEntries)
}

func (s *Store) historyPrune(ctx context.Context, maxEntries int) error {
	if maxEntries < 1 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM command_history WHERE id IN (
			SELECT id FROM command_history ORDER BY created_at ASC, id ASC
			LIMIT max((SELECT COUNT(*) FROM command_history) - ?, 0)
		)`, maxEntries)
	if err != nil {
		return errors.Wrap(errors.ErrCodeState, "cannot prune command history", err)
	}
	return nil
}

// HistoryList returns the most recent entries, newest first.
func (s *Store) HistoryList(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, command, argv_json, profile, org, region
		FROM command_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeState, "cannot list command history", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var createdAt float64
		var argvJSON string
		var profile, org, region sql.NullString
		if err := rows.Scan(&e.ID, &createdAt, &e.Command, &argvJSON, &profile, &org, &region); err != nil {
			return nil, errors.Wrap(errors.ErrCodeState, "cannot scan history row", err)
		}
		e.CreatedAt = time.Unix(0, int64(createdAt*float64(time.Second))).UTC()
		if err := json.Unmarshal([]byte(argvJSON), &e.Args); err != nil {
			return nil, errors.Wrap(errors.ErrCodeState,
				fmt.Sprintf("corrupt argv record for history id %d", e.ID), err)
		}
		e.Profile, e.Org, e.Region = profile.String, org.String, region.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeState, "cannot iterate history rows", err)
	}
	return out, nil
}

// HistoryCount returns the number of recorded invocations.
func (s *Store) HistoryCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM command_history`).Scan(&n); err != nil {
		return 0, errors.Wrap(errors.ErrCodeState, "cannot count command history", err)
	}
	return n, nil
}

// HistoryClear removes all recorded invocations.
func (s *Store) HistoryClear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM command_history`); err != nil {
		return errors.Wrap(errors.ErrCodeState, "cannot clear command history", err)
	}
	return nil
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
