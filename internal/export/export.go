// Package export writes the task list in formats meant for other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/stats"
)

// Formats lists the supported export formats.
var Formats = []string{"json", "yaml", "csv", "pdf"}

type yamlTask struct {
	ID          int64      `yaml:"id"`
	Text        string     `yaml:"text"`
	Completed   bool       `yaml:"completed"`
	CreatedAt   time.Time  `yaml:"created_at"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	Priority    string     `yaml:"priority"`
	DueDate     *string    `yaml:"due_date,omitempty"`
	Notes       string     `yaml:"notes,omitempty"`
}

// Write renders tasks in the given format. now decides due-date statuses.
func Write(w io.Writer, format string, tasks []model.Task, now time.Time) error {
	switch strings.ToLower(format) {
	case "json":
		if tasks == nil {
			tasks = []model.Task{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml", "yml":
		return writeYAML(w, tasks)
	case "csv":
		return writeCSV(w, tasks, now)
	case "pdf":
		return writePDF(w, tasks, now)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

func writeYAML(w io.Writer, tasks []model.Task) error {
	out := make([]yamlTask, len(tasks))
	for i, t := range tasks {
		out[i] = yamlTask{
			ID:          t.ID,
			Text:        t.Text,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
			Priority:    string(t.Priority),
			Notes:       t.Notes,
		}
		if t.DueDate != nil {
			s := t.DueDate.String()
			out[i].DueDate = &s
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]yamlTask{"tasks": out}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

var csvHeader = []string{"id", "text", "completed", "priority", "due_date", "due_status", "created_at", "completed_at", "notes"}

func writeCSV(w io.Writer, tasks []model.Task, now time.Time) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, t := range tasks {
		var dueDate, dueStatus, completedAt string
		if status, ok := t.DueStatus(now); ok {
			dueDate = t.DueDate.String()
			dueStatus = string(status)
		}
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Text,
			strconv.FormatBool(t.Completed),
			string(t.Priority),
			dueDate,
			dueStatus,
			t.CreatedAt.Format(time.RFC3339),
			completedAt,
			t.Notes,
		})
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []model.Task, now time.Time) error {
	s := stats.Compute(tasks, now)
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Task list", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task list")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	summary := fmt.Sprintf("%d tasks, %d completed, %d pending, %d overdue. Completion %.0f%%, average %.1f days to complete.",
		s.Total, s.Completed, s.Pending, s.Overdue, s.CompletionRate, s.AvgCompletionDays)
	pdf.MultiCell(0, 6, summary, "0", "L", false)
	pdf.Ln(4)

	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", check, t.Text, t.Priority)
		if status, ok := t.DueStatus(now); ok {
			line += fmt.Sprintf(" due %s, %s", t.DueDate, status)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, translate(line), "0", "L", false)
		if t.HasNotes() {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, translate("    "+t.Notes), "0", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
