package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/nissyi-gh/worklist/internal/model"
)

// FileStore keeps the task collection as a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store writing to path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the collection is written to.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file. A missing file yields an empty collection.
func (s *FileStore) Load(_ context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	tasks, err := decodeTasks(b)
	if err != nil {
		if renameErr := os.Rename(s.path, s.path+".bak"); renameErr != nil {
			return nil, fmt.Errorf("back up malformed file: %w", renameErr)
		}
		return nil, fmt.Errorf("load %s: %w: %v", s.path, ErrMalformed, err)
	}
	return tasks, nil
}

// Save replaces the file atomically.
func (s *FileStore) Save(_ context.Context, tasks []model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := encodeTasks(tasks)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps the collection in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	tasks []model.Task
	saves int
}

// NewMemoryStore returns a store preloaded with tasks.
func NewMemoryStore(tasks ...model.Task) *MemoryStore {
	return &MemoryStore{tasks: cloneTasks(tasks)}
}

func (s *MemoryStore) Load(_ context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks), nil
}

func (s *MemoryStore) Save(_ context.Context, tasks []model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneTasks(tasks)
	s.saves++
	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func cloneTasks(tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	out := slices.Clone(tasks)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}
