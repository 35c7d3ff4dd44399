package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"github.com/nissyi-gh/worklist/internal/model"
)

// TaskItem wraps model.Task to satisfy the list.DefaultItem interface.
type TaskItem struct {
	Task model.Task
	// Now is the moment due marks are computed against.
	Now time.Time
}

func (i TaskItem) Title() string {
	check := "[ ]"
	if i.Task.Completed {
		check = "[x]"
	}
	notesMark := ""
	if i.Task.HasNotes() {
		notesMark = " ✎"
	}
	return fmt.Sprintf("%s %s%s %s%s", check, dueMark(i.Task, i.Now), priorityBadge(i.Task.Priority), i.Task.Text, notesMark)
}

func (i TaskItem) Description() string {
	return ""
}

func (i TaskItem) FilterValue() string {
	return i.Task.Text
}

func dueMark(t model.Task, now time.Time) string {
	if t.Completed {
		return ""
	}
	status, ok := t.DueStatus(now)
	if !ok {
		return ""
	}
	switch status {
	case model.DueOverdue:
		return "⚠️ "
	case model.DueToday:
		return "📅 "
	case model.DueSoon:
		return "⏳ "
	default:
		return ""
	}
}

func priorityBadge(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return highStyle.Render("!!!")
	case model.PriorityLow:
		return lowStyle.Render("!  ")
	default:
		return mediumStyle.Render("!! ")
	}
}

func toItems(tasks []model.Task, now time.Time) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t, Now: now}
	}
	return items
}
