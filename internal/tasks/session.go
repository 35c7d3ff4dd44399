package tasks

import (
	"strings"

	"github.com/nissyi-gh/worklist/internal/model"
)

// Draft holds the mutable fields of a task while it is being added or edited.
type Draft struct {
	Text     string
	Priority model.Priority
	DueDate  *model.Date
	Notes    string
}

// DraftOf copies the editable fields of t.
func DraftOf(t model.Task) Draft {
	d := Draft{
		Text:     t.Text,
		Priority: t.Priority,
		Notes:    t.Notes,
	}
	if t.DueDate != nil {
		due := *t.DueDate
		d.DueDate = &due
	}
	return d
}

func (d Draft) normalized() Draft {
	d.Text = strings.TrimSpace(d.Text)
	if !d.Priority.Valid() {
		d.Priority = model.PriorityMedium
	}
	if strings.TrimSpace(d.Notes) == "" {
		d.Notes = ""
	}
	if d.DueDate != nil {
		due := *d.DueDate
		d.DueDate = &due
	}
	return d
}

// EditSession is the single shared edit form state: either NoEdit or Editing.
type EditSession interface {
	editSession()
}

// NoEdit means no task is being edited.
type NoEdit struct{}

// Editing means TaskID is open in the edit form with Draft as its current values.
type Editing struct {
	TaskID int64
	Draft  Draft
}

func (NoEdit) editSession()  {}
func (Editing) editSession() {}
