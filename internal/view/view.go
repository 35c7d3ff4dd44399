package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"

	"github.com/nissyi-gh/worklist/internal/model"
)

// Query is everything that shapes the task lists on screen.
type Query struct {
	Search    string
	Sort      SortKey
	Direction Direction
	Collator  *collate.Collator
}

// Lists holds the derived lists. All is the filtered and sorted collection;
// Pending and Completed partition it.
type Lists struct {
	All       []model.Task
	Pending   []model.Task
	Completed []model.Task
}

// Tab selects one of the derived lists.
type Tab int

const (
	TabAll Tab = iota
	TabPending
	TabCompleted
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAll, TabPending, TabCompleted}

func (t Tab) String() string {
	switch t {
	case TabPending:
		return "pending"
	case TabCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseTab parses a tab name; unknown names select all tasks.
func ParseTab(s string) Tab {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "open", "todo":
		return TabPending
	case "completed", "done":
		return TabCompleted
	default:
		return TabAll
	}
}

// Next cycles all -> pending -> completed -> all.
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// Select returns the list for the tab.
func (l Lists) Select(t Tab) []model.Task {
	switch t {
	case TabPending:
		return l.Pending
	case TabCompleted:
		return l.Completed
	default:
		return l.All
	}
}

// Filter keeps tasks whose text or notes contain query, ignoring case.
// An empty query keeps everything.
func Filter(tasks []model.Task, query string) []model.Task {
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle == "" ||
			strings.Contains(fold.String(t.Text), needle) ||
			(t.Notes != "" && strings.Contains(fold.String(t.Notes), needle)) {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits tasks into pending and completed, keeping order.
func Partition(tasks []model.Task) (pending, completed []model.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}

// Derive filters, sorts and partitions tasks.
func Derive(tasks []model.Task, q Query) Lists {
	all := Sort(Filter(tasks, q.Search), q.Sort, q.Direction, q.Collator)
	pending, completed := Partition(all)
	return Lists{All: all, Pending: pending, Completed: completed}
}
