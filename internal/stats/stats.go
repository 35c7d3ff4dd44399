// Package stats aggregates figures over the whole, unfiltered task collection.
package stats

import (
	"time"

	"github.com/nissyi-gh/worklist/internal/model"
)

// PriorityCounts is the number of tasks per priority level.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Stats summarizes a task collection.
type Stats struct {
	Total             int            `json:"totalTasks"`
	Completed         int            `json:"completedTasksCount"`
	Pending           int            `json:"pendingTasksCount"`
	CompletionRate    float64        `json:"completionRate"`
	AvgCompletionDays float64        `json:"avgCompletionTime"`
	Priorities        PriorityCounts `json:"priorityDistribution"`
	Overdue           int            `json:"overdueTasksCount"`
}

const day = 24 * time.Hour

// Compute aggregates tasks. now decides which due dates are overdue.
func Compute(tasks []model.Task, now time.Time) Stats {
	var (
		s         Stats
		timed     int
		totalTime time.Duration
	)

	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			if t.CompletedAt != nil {
				timed++
				totalTime += t.CompletedAt.Sub(t.CreatedAt)
			}
		}

		switch t.Priority {
		case model.PriorityHigh:
			s.Priorities.High++
		case model.PriorityMedium:
			s.Priorities.Medium++
		case model.PriorityLow:
			s.Priorities.Low++
		}

		if t.IsOverdue(now) {
			s.Overdue++
		}
	}

	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	if timed > 0 {
		s.AvgCompletionDays = float64(totalTime) / float64(timed) / float64(day)
	}
	return s
}
