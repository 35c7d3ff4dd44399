package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nissyi-gh/worklist/internal/model"
)

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, time.Now())

	assert.Equal(t, Stats{}, s)
}

func TestCompute(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	threeDays := created.Add(3 * 24 * time.Hour)
	oneDay := created.Add(24 * time.Hour)
	past := model.Date{Year: 2024, Month: time.June, Day: 9}
	future := model.Date{Year: 2024, Month: time.June, Day: 20}

	tasks := []model.Task{
		{ID: 1, Text: "a", CreatedAt: created, Completed: true, CompletedAt: &threeDays, Priority: model.PriorityHigh, DueDate: &past},
		{ID: 2, Text: "b", CreatedAt: created, Completed: true, CompletedAt: &oneDay, Priority: model.PriorityHigh},
		{ID: 3, Text: "c", CreatedAt: created, Priority: model.PriorityMedium, DueDate: &past},
		{ID: 4, Text: "d", CreatedAt: created, Priority: model.PriorityLow, DueDate: &future},
	}

	s := Compute(tasks, time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local))

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 2, s.Pending)
	assert.InDelta(t, 50.0, s.CompletionRate, 1e-9)
	assert.InDelta(t, 2.0, s.AvgCompletionDays, 1e-9)
	assert.Equal(t, PriorityCounts{High: 2, Medium: 1, Low: 1}, s.Priorities)
	assert.Equal(t, 1, s.Overdue, "completed overdue tasks are not counted")
}

func TestCompute_CompletedWithoutTimestampIsSkippedForAverage(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: 1, Text: "legacy", CreatedAt: created, Completed: true, Priority: model.PriorityLow},
	}

	s := Compute(tasks, created)
	assert.Equal(t, 1, s.Completed)
	assert.InDelta(t, 100.0, s.CompletionRate, 1e-9)
	assert.Zero(t, s.AvgCompletionDays)
}
