package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/config"
	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/stats"
	"github.com/nissyi-gh/worklist/internal/store"
	"github.com/nissyi-gh/worklist/internal/tasks"
)

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

func newTestApp(t *testing.T, seed ...model.Task) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	q, err := cfg.Query()
	require.NoError(t, err)

	mem := store.NewMemoryStore(seed...)
	return &App{
		Config:  &cfg,
		Backend: mem,
		Query:   q,
		Tasks: tasks.Open(context.Background(), mem,
			tasks.WithClock(func() time.Time { return testNow }),
			tasks.WithLogger(zerolog.Nop()),
		),
	}
}

// run executes args against a fresh root command and returns its output.
func run(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	flags := &Flags{}

	root := &cli.Command{
		Name:   "worklist",
		Writer: &buf,
		Reader: strings.NewReader(stdin),
	}
	root = NewAddCmd(flags, app).Register(root)
	root = NewLsCmd(flags, app).Register(root)
	root = NewDoneCmd(flags, app).Register(root)
	root = NewEditCmd(flags, app).Register(root)
	root = NewStatsCmd(flags, app).Register(root)
	root = NewTransferCmd(flags, app).Register(root)
	root = NewPromptCmd(flags, app).Register(root)

	err := root.Run(context.Background(), append([]string{"worklist"}, args...))
	return buf.String(), err
}

func seed(id int64, text string, p model.Priority) model.Task {
	return model.Task{
		ID:        id,
		Text:      text,
		Priority:  p,
		CreatedAt: time.UnixMilli(id).UTC(),
	}
}

func TestAdd(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "", "add", "--priority", "high", "--due", "2024-06-12", "--notes", "2 liters", "Buy", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")

	all := app.Tasks.Tasks()
	require.Len(t, all, 1)
	assert.Equal(t, "Buy milk", all[0].Text)
	assert.Equal(t, model.PriorityHigh, all[0].Priority)
	assert.Equal(t, "2024-06-12", all[0].DueDate.String())
	assert.Equal(t, "2 liters", all[0].Notes)
}

func TestAdd_Errors(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "", "add", "   ")
	assert.ErrorIs(t, err, tasks.ErrEmptyText)

	_, err = run(t, app, "", "add", "--priority", "urgent", "x")
	assert.ErrorContains(t, err, "invalid priority")

	_, err = run(t, app, "", "add", "--due", "tomorrow", "x")
	assert.ErrorContains(t, err, "invalid date")

	assert.Equal(t, 0, app.Tasks.Len())
}

func TestLs(t *testing.T) {
	milk := seed(1, "Groceries", model.PriorityLow)
	milk.Notes = "milk"
	app := newTestApp(t, milk, seed(2, "Bank", model.PriorityHigh), seed(3, "Call mom", model.PriorityMedium))

	out, err := run(t, app, "", "ls", "--sort", "alphabetical", "--direction", "asc")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "TEXT")
	assert.Contains(t, lines[1], "Bank")
	assert.Contains(t, lines[2], "Call mom")
	assert.Contains(t, lines[3], "Groceries")

	out, err = run(t, app, "", "ls", "--search", "MILK", "--json")
	require.NoError(t, err)
	var got []model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestLs_Status(t *testing.T) {
	app := newTestApp(t, seed(1, "Open", model.PriorityMedium), seed(2, "Closed", model.PriorityMedium))
	_, err := run(t, app, "", "done", "2")
	require.NoError(t, err)

	out, err := run(t, app, "", "ls", "--status", "completed", "--json")
	require.NoError(t, err)
	var got []model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Closed", got[0].Text)

	out, err = run(t, app, "", "ls", "--status", "pending", "--search", "nothing", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestDoneAndRm(t *testing.T) {
	app := newTestApp(t, seed(1, "One", model.PriorityMedium), seed(2, "Two", model.PriorityMedium))

	out, err := run(t, app, "", "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	out, err = run(t, app, "", "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")

	_, err = run(t, app, "", "rm", "1")
	require.NoError(t, err)
	require.Equal(t, 1, app.Tasks.Len())
	assert.Equal(t, int64(2), app.Tasks.Tasks()[0].ID)

	_, err = run(t, app, "", "rm", "1")
	assert.ErrorIs(t, err, tasks.ErrNotFound)

	_, err = run(t, app, "", "done", "abc")
	assert.ErrorContains(t, err, "invalid task id")
}

func TestEdit(t *testing.T) {
	task := seed(1, "Draft report", model.PriorityLow)
	due := model.Date{Year: 2024, Month: time.June, Day: 20}
	task.DueDate = &due
	task.Notes = "old"
	app := newTestApp(t, task)

	_, err := run(t, app, "", "edit", "--text", "Final report", "--priority", "high", "--clear-due", "1")
	require.NoError(t, err)

	got, err := app.Tasks.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Final report", got.Text)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "old", got.Notes)
	assert.IsType(t, tasks.NoEdit{}, app.Tasks.Session())
}

func TestEdit_EmptyTextLeavesTask(t *testing.T) {
	app := newTestApp(t, seed(1, "Keep", model.PriorityMedium))

	_, err := run(t, app, "", "edit", "--text", "  ", "1")
	assert.ErrorIs(t, err, tasks.ErrEmptyText)

	got, err := app.Tasks.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Text)
	assert.IsType(t, tasks.NoEdit{}, app.Tasks.Session())
}

func TestEdit_DueConflict(t *testing.T) {
	app := newTestApp(t, seed(1, "Keep", model.PriorityMedium))
	_, err := run(t, app, "", "edit", "--due", "2024-06-12", "--clear-due", "1")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestStats(t *testing.T) {
	done := seed(1, "Done", model.PriorityHigh)
	done.Completed = true
	completedAt := done.CreatedAt.Add(48 * time.Hour)
	done.CompletedAt = &completedAt
	app := newTestApp(t, done, seed(2, "Open", model.PriorityLow))

	out, err := run(t, app, "", "stats", "--json")
	require.NoError(t, err)

	var s stats.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 2, s.Total)
	assert.InDelta(t, 50.0, s.CompletionRate, 0.001)
	assert.InDelta(t, 2.0, s.AvgCompletionDays, 0.001)

	out, err = run(t, app, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Completion:   50%")
}

func TestImport(t *testing.T) {
	app := newTestApp(t)
	doc := "tasks:\n  - title: Trip\n    priority: high\n    children:\n      - title: Book hotel\n"

	out, err := run(t, app, doc, "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks")

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - title: Pack\n"), 0o644))
	_, err = run(t, app, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, 3, app.Tasks.Len())

	_, err = run(t, app, "tasks:\n  - priority: low\n", "import", "-")
	assert.ErrorContains(t, err, "title is required")
	assert.Equal(t, 3, app.Tasks.Len())
}

func TestExport(t *testing.T) {
	app := newTestApp(t, seed(1, "One", model.PriorityMedium))

	out, err := run(t, app, "", "export", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,text,completed"))

	path := filepath.Join(t.TempDir(), "tasks.pdf")
	_, err = run(t, app, "", "export", "--format", "pdf", "--out", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = run(t, app, "", "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestPrompt(t *testing.T) {
	app := newTestApp(t, seed(1, "Plan trip", model.PriorityHigh))

	out, err := run(t, app, "", "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "tasks:")

	out, err = run(t, app, "", "prompt", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "- Title: Plan trip")

	_, err = run(t, app, "", "prompt", "99")
	assert.ErrorIs(t, err, tasks.ErrNotFound)
}

func TestAppOpen(t *testing.T) {
	dir := t.TempDir()
	flags := &Flags{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		DataDir:    dir,
		Storage:    store.BackendFile,
	}

	app := &App{}
	require.NoError(t, app.Open(context.Background(), flags))
	t.Cleanup(func() { _ = app.Close() })

	_, err := app.Tasks.Add(context.Background(), tasks.Draft{Text: "persisted"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "tasks.json"))

	reopened := &App{}
	require.NoError(t, reopened.Open(context.Background(), flags))
	require.Equal(t, 1, reopened.Tasks.Len())
	assert.Equal(t, "persisted", reopened.Tasks.Tasks()[0].Text)
}

func TestAppOpen_BadStorage(t *testing.T) {
	dir := t.TempDir()
	app := &App{}
	err := app.Open(context.Background(), &Flags{DataDir: dir, Storage: "redis"})
	assert.ErrorContains(t, err, "invalid storage flag")
}

func TestLogFilePath(t *testing.T) {
	f := &Flags{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "worklist.log"), f.LogFilePath())
	f.LogFile = "/tmp/x.log"
	assert.Equal(t, "/tmp/x.log", f.LogFilePath())
}
