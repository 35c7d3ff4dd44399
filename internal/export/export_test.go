package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/worklist/internal/model"
)

var now = time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

func sampleTasks() []model.Task {
	due := model.Date{Year: 2024, Month: time.June, Day: 9}
	done := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: 1, Text: "Pay rent", Priority: model.PriorityHigh, DueDate: &due, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Text: "Buy şeker", Priority: model.PriorityLow, Completed: true, CompletedAt: &done, Notes: "two bags", CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", sampleTasks(), now))

	var got []model.Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleTasks(), got)
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", nil, now))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "YAML", sampleTasks(), now))

	var got struct {
		Tasks []struct {
			Text    string `yaml:"text"`
			DueDate string `yaml:"due_date"`
		} `yaml:"tasks"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "2024-06-09", got.Tasks[0].DueDate)
	assert.Empty(t, got.Tasks[1].DueDate)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", sampleTasks(), now))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"1", "Pay rent", "false", "high", "2024-06-09", "overdue"}, rows[1][:6])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "2024-06-03T00:00:00Z", rows[2][7])
	assert.Equal(t, "two bags", rows[2][8])
}

func TestWrite_PDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "pdf", sampleTasks(), now))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", nil, now)
	assert.ErrorContains(t, err, "unknown format")
}
