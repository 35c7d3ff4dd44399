package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/worklist/internal/importer"
	"github.com/nissyi-gh/worklist/internal/model"
)

func TestGenerateFromTask(t *testing.T) {
	due := model.Date{Year: 2024, Month: time.June, Day: 12}
	task := model.Task{ID: 1, Text: "Move house", Priority: model.PriorityHigh, DueDate: &due, Notes: "book the van"}
	all := []model.Task{
		task,
		{ID: 2, Text: "Move house / Pack kitchen", Completed: true},
		{ID: 3, Text: "Move houseplants"},
	}

	related := Related(task, all)
	require.Len(t, related, 1)

	out := GenerateFromTask(task, related, time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local))
	assert.Contains(t, out, "- Title: Move house\n")
	assert.Contains(t, out, "- Priority: high\n")
	assert.Contains(t, out, "- Notes: book the van\n")
	assert.Contains(t, out, "- Due: 2024-06-12 (soon)\n")
	assert.Contains(t, out, "- Move house / Pack kitchen (done)\n")
	assert.NotContains(t, out, "houseplants")
}

func TestGenerateNew_ExampleMatchesImportFormat(t *testing.T) {
	out := GenerateNew()

	_, block, ok := strings.Cut(out, "```yaml")
	require.True(t, ok)
	block, _, ok = strings.Cut(block, "```")
	require.True(t, ok)

	var input importer.YAMLInput
	require.NoError(t, yaml.Unmarshal([]byte(block), &input))
	require.Len(t, input.Tasks, 1)
	assert.Equal(t, "Task title", input.Tasks[0].Title)
	assert.Equal(t, "medium", input.Tasks[0].Priority)
	require.Len(t, input.Tasks[0].Children, 1)
}
