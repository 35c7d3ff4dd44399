package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nissyi-gh/worklist/internal/model"
	_ "modernc.org/sqlite"
)

// DefaultKey is the key the task collection is stored under.
const DefaultKey = "tasks"

// ErrMalformed is returned by Load when the stored collection cannot be decoded.
// The unreadable content is moved aside before the error is returned.
var ErrMalformed = errors.New("stored tasks are malformed")

// SQLiteStore keeps the task collection as one JSON document in a SQLite
// key-value table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// DefaultDataDir returns $XDG_DATA_HOME/worklist, falling back to ~/.local/share.
func DefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "worklist"), nil
}

func defaultDBPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "worklist.db"), nil
}

// NewSQLiteStore opens (or creates) the SQLite database and ensures the schema exists.
// An empty dbPath uses the default data directory; an empty key uses DefaultKey.
func NewSQLiteStore(dbPath, key string) (*SQLiteStore, error) {
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("determine db path: %w", err)
		}
	}
	if key == "" {
		key = DefaultKey
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, key: key}, nil
}

// Key returns the key the collection is stored under.
func (s *SQLiteStore) Key() string {
	return s.key
}

// Load reads the collection. A missing key yields an empty collection.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Task, error) {
	raw, err := s.Get(ctx, s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tasks, err := decodeTasks(raw)
	if err != nil {
		if bakErr := s.Set(ctx, s.key+".bak", raw); bakErr != nil {
			return nil, fmt.Errorf("back up malformed tasks: %w", bakErr)
		}
		if delErr := s.Delete(ctx, s.key); delErr != nil {
			return nil, fmt.Errorf("remove malformed tasks: %w", delErr)
		}
		return nil, fmt.Errorf("load %q: %w: %v", s.key, ErrMalformed, err)
	}
	return tasks, nil
}

// Save overwrites the collection.
func (s *SQLiteStore) Save(ctx context.Context, tasks []model.Task) error {
	raw, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	return s.Set(ctx, s.key, raw)
}

// Get returns the raw value stored under key. A missing key returns an error
// wrapping sql.ErrNoRows.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(value), nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return b, nil
}

func decodeTasks(b []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
