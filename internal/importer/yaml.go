package importer

import (
	"context"
	"fmt"

	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/tasks"
	"gopkg.in/yaml.v3"
)

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Title    string     `yaml:"title"`
	Priority string     `yaml:"priority,omitempty"`
	DueDate  string     `yaml:"due_date,omitempty"`
	Notes    string     `yaml:"notes,omitempty"`
	Children []YAMLTask `yaml:"children,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Parse converts a YAML document into drafts. Children are flattened after
// their parent and their titles are prefixed with the parent's title.
func Parse(yamlStr string) ([]tasks.Draft, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return nil, fmt.Errorf("no tasks found in YAML")
	}

	var drafts []tasks.Draft
	for _, yt := range input.Tasks {
		var err error
		drafts, err = appendTask(drafts, yt, "")
		if err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

func appendTask(drafts []tasks.Draft, yt YAMLTask, parent string) ([]tasks.Draft, error) {
	if yt.Title == "" {
		return drafts, fmt.Errorf("task title is required")
	}

	title := yt.Title
	if parent != "" {
		title = parent + " / " + yt.Title
	}

	priority, err := model.ParsePriority(yt.Priority)
	if err != nil {
		return drafts, fmt.Errorf("task %q: %w", yt.Title, err)
	}

	d := tasks.Draft{Text: title, Priority: priority, Notes: yt.Notes}
	if yt.DueDate != "" {
		due, err := model.ParseDate(yt.DueDate)
		if err != nil {
			return drafts, fmt.Errorf("task %q: %w", yt.Title, err)
		}
		d.DueDate = &due
	}
	drafts = append(drafts, d)

	for _, child := range yt.Children {
		drafts, err = appendTask(drafts, child, title)
		if err != nil {
			return drafts, err
		}
	}
	return drafts, nil
}

// Import parses a YAML string and adds its tasks to the store in one batch.
// Returns the number of tasks created.
func Import(ctx context.Context, s *tasks.Store, yamlStr string) (int, error) {
	drafts, err := Parse(yamlStr)
	if err != nil {
		return 0, err
	}

	added, err := s.Import(ctx, drafts)
	if err != nil {
		return 0, fmt.Errorf("add tasks: %w", err)
	}
	return len(added), nil
}
