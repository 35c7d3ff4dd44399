package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/tasks"
)

type formField int

const (
	fieldText formField = iota
	fieldPriority
	fieldDue
	fieldNotes
	fieldCount
)

// taskForm edits a tasks.Draft. editID is zero when adding.
type taskForm struct {
	editID   int64
	text     textinput.Model
	priority model.Priority
	due      dateInput
	notes    textarea.Model
	focus    formField
}

func newTaskForm() taskForm {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256

	ta := textarea.New()
	ta.Placeholder = "Notes (markdown)..."
	ta.CharLimit = 4096
	ta.SetHeight(5)

	return taskForm{
		text:     ti,
		priority: model.PriorityMedium,
		due:      newDateInput(),
		notes:    ta,
	}
}

// load fills the form from d and focuses the text field.
func (f *taskForm) load(editID int64, d tasks.Draft) tea.Cmd {
	f.editID = editID
	f.text.SetValue(d.Text)
	f.priority = d.Priority
	if !f.priority.Valid() {
		f.priority = model.PriorityMedium
	}
	f.due.SetValue(d.DueDate)
	f.notes.SetValue(d.Notes)
	return f.focusField(fieldText)
}

func (f *taskForm) editing() bool {
	return f.editID != 0
}

// draft reads the form back. An invalid due date is reported, a blank one clears it.
func (f *taskForm) draft(now time.Time) (tasks.Draft, error) {
	d := tasks.Draft{
		Text:     f.text.Value(),
		Priority: f.priority,
		Notes:    f.notes.Value(),
	}
	if !f.due.IsEmpty() {
		due, err := f.due.Value(now)
		if err != nil {
			return d, err
		}
		d.DueDate = &due
	}
	return d, nil
}

func (f *taskForm) setWidth(w int) {
	f.text.Width = w
	f.notes.SetWidth(w)
}

func (f *taskForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.text.Blur()
	f.due.Blur()
	f.notes.Blur()
	switch field {
	case fieldText:
		return f.text.Focus()
	case fieldDue:
		return f.due.Focus()
	case fieldNotes:
		return f.notes.Focus()
	}
	return nil
}

func (f taskForm) Update(msg tea.Msg) (taskForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab":
			if f.focus == fieldDue && !f.due.atLast() {
				break
			}
			cmd := f.focusField((f.focus + 1) % fieldCount)
			return f, cmd
		case "shift+tab":
			if f.focus == fieldDue && !f.due.atFirst() {
				break
			}
			prev := (f.focus + fieldCount - 1) % fieldCount
			cmd := f.focusField(prev)
			if prev == fieldDue {
				cmd = f.due.FocusLast()
			}
			return f, cmd
		}
		if f.focus == fieldPriority {
			switch keyMsg.String() {
			case " ", "right", "l", "h", "left":
				f.priority = f.priority.Next()
			case "1":
				f.priority = model.PriorityHigh
			case "2":
				f.priority = model.PriorityMedium
			case "3":
				f.priority = model.PriorityLow
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldText:
		f.text, cmd = f.text.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	case fieldNotes:
		f.notes, cmd = f.notes.Update(msg)
	}
	return f, cmd
}

func (f taskForm) View() string {
	label := func(field formField, name string) string {
		if f.focus == field {
			return titleStyle.Render("> " + name)
		}
		return statusStyle.Render("  " + name)
	}

	return label(fieldText, "Text") + "\n" + f.text.View() + "\n\n" +
		label(fieldPriority, "Priority") + "\n  " + priorityBadge(f.priority) + " " + string(f.priority) + "\n\n" +
		label(fieldDue, "Due date") + "\n" + f.due.View() + "\n\n" +
		label(fieldNotes, "Notes") + "\n" + f.notes.View()
}
