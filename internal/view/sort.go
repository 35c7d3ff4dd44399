// Package view derives the filtered, sorted and partitioned task lists shown
// to the user. Every function is a pure projection of its input.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nissyi-gh/worklist/internal/model"
)

// SortKey selects the field tasks are ordered by.
type SortKey string

const (
	SortCreatedAt    SortKey = "createdAt"
	SortDueDate      SortKey = "dueDate"
	SortPriority     SortKey = "priority"
	SortAlphabetical SortKey = "alphabetical"
)

// SortKeys lists the sort keys in the order the TUI cycles through them.
var SortKeys = []SortKey{SortCreatedAt, SortDueDate, SortPriority, SortAlphabetical}

// ParseSortKey accepts the canonical names plus a few short aliases.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "createdat", "created", "created_at":
		return SortCreatedAt, nil
	case "duedate", "due", "due_date":
		return SortDueDate, nil
	case "priority", "prio":
		return SortPriority, nil
	case "alphabetical", "alpha", "text", "name":
		return SortAlphabetical, nil
	}
	return "", fmt.Errorf("invalid sort key %q: must be one of createdAt, dueDate, priority, alphabetical", s)
}

// Next returns the following sort key, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Label is a short human readable name.
func (k SortKey) Label() string {
	switch k {
	case SortDueDate:
		return "due date"
	case SortPriority:
		return "priority"
	case SortAlphabetical:
		return "a-z"
	default:
		return "created"
	}
}

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection parses "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "", "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("invalid sort direction %q: must be asc or desc", s)
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// DefaultLocale matches the collation the task texts have always been sorted with.
const DefaultLocale = "tr"

// NewCollator returns a collator for the BCP 47 locale tag.
func NewCollator(locale string) (*collate.Collator, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return collate.New(tag), nil
}

// Sort returns a sorted copy of tasks. The sort is stable and descending
// simply negates each comparison. A nil collator uses DefaultLocale.
func Sort(tasks []model.Task, key SortKey, dir Direction, coll *collate.Collator) []model.Task {
	if coll == nil {
		coll = collate.New(language.MustParse(DefaultLocale))
	}

	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		c := compare(a, b, key, coll)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b model.Task, key SortKey, coll *collate.Collator) int {
	switch key {
	case SortDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Time().Compare(b.DueDate.Time())
	case SortPriority:
		return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
	case SortAlphabetical:
		return coll.CompareString(a.Text, b.Text)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
