package importer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/store"
	"github.com/nissyi-gh/worklist/internal/tasks"
)

const sample = `
tasks:
  - title: "Move house"
    priority: high
    due_date: "2024-07-01"
    notes: "book the van"
    children:
      - title: "Pack kitchen"
      - title: "Cancel internet"
        priority: low
  - title: "Water plants"
`

func TestParse(t *testing.T) {
	drafts, err := Parse(sample)
	require.NoError(t, err)
	require.Len(t, drafts, 4)

	assert.Equal(t, "Move house", drafts[0].Text)
	assert.Equal(t, model.PriorityHigh, drafts[0].Priority)
	require.NotNil(t, drafts[0].DueDate)
	assert.Equal(t, "2024-07-01", drafts[0].DueDate.String())
	assert.Equal(t, "book the van", drafts[0].Notes)

	assert.Equal(t, "Move house / Pack kitchen", drafts[1].Text)
	assert.Equal(t, model.PriorityMedium, drafts[1].Priority)
	assert.Equal(t, "Move house / Cancel internet", drafts[2].Text)
	assert.Equal(t, model.PriorityLow, drafts[2].Priority)
	assert.Equal(t, "Water plants", drafts[3].Text)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"syntax", "tasks: [", "YAML parse error"},
		{"empty", "tasks: []", "no tasks found"},
		{"missing title", "tasks:\n  - priority: high", "title is required"},
		{"bad priority", "tasks:\n  - title: x\n    priority: urgent", "invalid priority"},
		{"bad date", "tasks:\n  - title: x\n    due_date: soon", "invalid date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.yaml)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	s := tasks.Open(ctx, mem, tasks.WithClock(func() time.Time { return now }), tasks.WithLogger(zerolog.Nop()))

	n, err := Import(ctx, s, sample)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 1, mem.Saves())

	saved, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 4)
}
