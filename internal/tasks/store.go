// Package tasks owns the in-memory task collection and every mutation of it.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nissyi-gh/worklist/internal/model"
)

var (
	// ErrEmptyText is returned when a task's text is empty after trimming.
	ErrEmptyText = errors.New("task text is required")
	// ErrNotFound is returned when no task has the given ID.
	ErrNotFound = errors.New("task not found")
	// ErrNotEditing is returned when committing a task that is not open for editing.
	ErrNotEditing = errors.New("task is not being edited")
)

// Persister loads and saves the whole task collection.
type Persister interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store holds the ordered task collection and writes it through to a
// Persister after every mutation.
type Store struct {
	mu      sync.Mutex
	tasks   []model.Task
	session EditSession
	lastID  int64
	persist Persister
	now     func() time.Time
	log     zerolog.Logger
}

// Open creates a store and loads the collection from p. A load failure is
// logged and the store starts empty; it never prevents the store from opening.
func Open(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		session: NoEdit{},
		persist: p,
		now:     time.Now,
		log:     log.With().Str("cmp", "tasks").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := p.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load tasks failed, starting with an empty list")
		loaded = nil
	}

	seen := make(map[int64]bool, len(loaded))
	for _, t := range loaded {
		if seen[t.ID] {
			s.log.Warn().Int64("id", t.ID).Msg("dropping task with duplicate id")
			continue
		}
		seen[t.ID] = true
		s.tasks = append(s.tasks, normalizeLoaded(t))
		s.lastID = max(s.lastID, t.ID)
	}

	s.log.Debug().Int("count", len(s.tasks)).Msg("tasks loaded")
	return s
}

// normalizeLoaded repairs records that violate the completedAt invariant.
func normalizeLoaded(t model.Task) model.Task {
	if !t.Priority.Valid() {
		t.Priority = model.PriorityMedium
	}
	if !t.Completed {
		t.CompletedAt = nil
	}
	if t.Completed && t.CompletedAt == nil {
		at := t.CreatedAt
		t.CompletedAt = &at
	}
	return t
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the task with the given ID.
func (s *Store) Get(id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	return s.tasks[i].Clone(), nil
}

// Session returns the current edit session.
func (s *Store) Session() EditSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Add appends a new pending task and returns it.
func (s *Store) Add(ctx context.Context, d Draft) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.addLocked(d)
	if err != nil {
		return model.Task{}, err
	}
	s.saveLocked(ctx)
	return t.Clone(), nil
}

// Import appends all drafts and persists once. It validates every draft
// before adding any, so a bad entry leaves the collection unchanged.
func (s *Store) Import(ctx context.Context, drafts []Draft) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range drafts {
		if d.normalized().Text == "" {
			return nil, fmt.Errorf("import entry %d: %w", i, ErrEmptyText)
		}
	}

	added := make([]model.Task, 0, len(drafts))
	for _, d := range drafts {
		t, err := s.addLocked(d)
		if err != nil {
			return nil, err
		}
		added = append(added, t.Clone())
	}
	if len(added) > 0 {
		s.saveLocked(ctx)
	}
	return added, nil
}

func (s *Store) addLocked(d Draft) (model.Task, error) {
	d = d.normalized()
	if d.Text == "" {
		return model.Task{}, ErrEmptyText
	}

	now := s.stamp()
	t := model.Task{
		ID:        s.nextIDLocked(now),
		Text:      d.Text,
		CreatedAt: now,
		Priority:  d.Priority,
		DueDate:   d.DueDate,
		Notes:     d.Notes,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// nextIDLocked derives the ID from the creation time in milliseconds and
// bumps it past the last issued ID when two tasks share a millisecond.
func (s *Store) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// ToggleComplete flips the completion state of a task.
func (s *Store) ToggleComplete(ctx context.Context, id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("toggle task %d: %w", id, ErrNotFound)
	}

	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		at := s.stamp()
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}

	s.saveLocked(ctx)
	return t.Clone(), nil
}

// BeginEdit opens id in the edit form, closing any other open edit.
func (s *Store) BeginEdit(id int64) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Draft{}, fmt.Errorf("edit task %d: %w", id, ErrNotFound)
	}

	d := DraftOf(s.tasks[i])
	s.session = Editing{TaskID: id, Draft: d}
	return d, nil
}

// CommitEdit overwrites the mutable fields of the task being edited. When the
// text is empty the session stays open holding the submitted draft.
func (s *Store) CommitEdit(ctx context.Context, id int64, d Draft) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	editing, ok := s.session.(Editing)
	if !ok || editing.TaskID != id {
		return model.Task{}, fmt.Errorf("commit task %d: %w", id, ErrNotEditing)
	}

	i := s.indexLocked(id)
	if i < 0 {
		s.session = NoEdit{}
		return model.Task{}, fmt.Errorf("commit task %d: %w", id, ErrNotFound)
	}

	norm := d.normalized()
	if norm.Text == "" {
		s.session = Editing{TaskID: id, Draft: d}
		return model.Task{}, ErrEmptyText
	}

	t := &s.tasks[i]
	t.Text = norm.Text
	t.Priority = norm.Priority
	t.DueDate = norm.DueDate
	t.Notes = norm.Notes
	s.session = NoEdit{}

	s.saveLocked(ctx)
	return t.Clone(), nil
}

// CancelEdit closes the edit form for id without changing the task.
func (s *Store) CancelEdit(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if editing, ok := s.session.(Editing); ok && editing.TaskID == id {
		s.session = NoEdit{}
	}
}

// Delete removes a task permanently.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("delete task %d: %w", id, ErrNotFound)
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	if editing, ok := s.session.(Editing); ok && editing.TaskID == id {
		s.session = NoEdit{}
	}

	s.saveLocked(ctx)
	return nil
}

// ToggleNotesVisibility flips whether the task's notes are shown.
func (s *Store) ToggleNotesVisibility(ctx context.Context, id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("toggle notes %d: %w", id, ErrNotFound)
	}

	t := &s.tasks[i]
	t.ShowNotes = !t.ShowNotes

	s.saveLocked(ctx)
	return t.Clone(), nil
}

func (s *Store) indexLocked(id int64) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *Store) snapshotLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// stamp returns the current time at millisecond precision in UTC, which is
// what survives a round trip through storage.
func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// saveLocked writes the collection through. Failures are logged and the
// in-memory state is kept.
func (s *Store) saveLocked(ctx context.Context) {
	if err := s.persist.Save(ctx, s.snapshotLocked()); err != nil {
		s.log.Error().Err(err).Int("count", len(s.tasks)).Msg("save tasks failed")
	}
}
