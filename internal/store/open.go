package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nissyi-gh/worklist/internal/model"
)

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendSQLite, BackendFile, BackendMemory}

// Backend is a task collection sink that owns a resource.
type Backend interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}

var (
	_ Backend = (*SQLiteStore)(nil)
	_ Backend = (*FileStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)

// Open creates the named backend. An empty path places the data in dataDir,
// or in DefaultDataDir when dataDir is empty too.
func Open(backend, path, key, dataDir string) (Backend, error) {
	switch backend {
	case "", BackendSQLite:
		if path == "" && dataDir != "" {
			path = filepath.Join(dataDir, "worklist.db")
		}
		s, err := NewSQLiteStore(path, key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		if path == "" {
			if dataDir == "" {
				dir, err := DefaultDataDir()
				if err != nil {
					return nil, fmt.Errorf("determine data dir: %w", err)
				}
				dataDir = dir
			}
			path = filepath.Join(dataDir, "tasks.json")
		}
		return NewFileStore(path), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
