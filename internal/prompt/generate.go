package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/nissyi-gh/worklist/internal/model"
)

const yamlFormat = `Reply with a YAML code block only, using the format below and no other text.

` + "```yaml" + `
tasks:
  - title: "Task title"
    priority: "medium"
    due_date: "YYYY-MM-DD"
    notes: "Details about the task"
    children:
      - title: "Sub-task title"
        notes: "Details about the sub-task"
` + "```" + `

Fields:
- title: (required) the task title
- priority: (optional) one of low, medium, high
- due_date: (optional) due date in YYYY-MM-DD format
- notes: (optional) free-form details
- children: (optional) list of sub-tasks (may nest)`

// GenerateNew returns a prompt for creating new tasks from scratch.
func GenerateNew() string {
	return fmt.Sprintf(`You are a task planning assistant.
Break the user's request down into tasks of a sensible size.

%s
`, yamlFormat)
}

// GenerateFromTask returns a prompt for breaking down an existing task.
// related lists other tasks whose titles start with the task's title.
func GenerateFromTask(task model.Task, related []model.Task, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("You are a task planning assistant.\n")
	sb.WriteString("Break the following task down into concrete sub-tasks.\n\n")

	sb.WriteString("## Task\n")
	sb.WriteString(fmt.Sprintf("- Title: %s\n", task.Text))
	sb.WriteString(fmt.Sprintf("- Priority: %s\n", task.Priority))

	if task.HasNotes() {
		sb.WriteString(fmt.Sprintf("- Notes: %s\n", task.Notes))
	}
	if status, ok := task.DueStatus(now); ok {
		sb.WriteString(fmt.Sprintf("- Due: %s (%s)\n", task.DueDate, status))
	}

	if len(related) > 0 {
		sb.WriteString("\n## Existing sub-tasks\n")
		for _, c := range related {
			status := "pending"
			if c.Completed {
				status = "done"
			}
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", c.Text, status))
		}
		sb.WriteString("\nOnly add the sub-tasks that are still missing.\n")
	}

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}

// Related returns the tasks created by importing sub-tasks of task.
func Related(task model.Task, all []model.Task) []model.Task {
	prefix := task.Text + " / "
	var out []model.Task
	for _, t := range all {
		if t.ID != task.ID && strings.HasPrefix(t.Text, prefix) {
			out = append(out, t)
		}
	}
	return out
}
