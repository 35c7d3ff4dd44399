package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the importance level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from most to least important.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns 3 for high, 2 for medium, 1 for low and 0 for anything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority parses a priority name. An empty string yields medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q: must be one of low, medium, high", s)
	}
	return p, nil
}

// Task represents a single to-do item.
type Task struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *Date      `json:"dueDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ShowNotes   bool       `json:"showNotes,omitempty"`
}

// HasNotes returns true if the task carries non-blank notes.
func (t Task) HasNotes() bool {
	return strings.TrimSpace(t.Notes) != ""
}

// DueStatus classifies the task's due date against now.
// The second result is false when the task has no due date.
func (t Task) DueStatus(now time.Time) (DueStatus, bool) {
	if t.DueDate == nil {
		return "", false
	}
	return ClassifyDue(*t.DueDate, now), true
}

// IsOverdue returns true if the task is past its due date and not completed.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	status, ok := t.DueStatus(now)
	return ok && status == DueOverdue
}

// IsDueToday returns true if the task's due date is today.
func (t Task) IsDueToday(now time.Time) bool {
	status, ok := t.DueStatus(now)
	return ok && status == DueToday
}

// Clone returns a deep copy so callers never share pointer fields with the store.
func (t Task) Clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return c
}
