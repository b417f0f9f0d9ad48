package task_test

import (
	"testing"

	"taskapi/internal/models/task"

	"github.com/stretchr/testify/assert"
)

func TestTaskOptions_Apply(t *testing.T) {
	base := task.Task{
		ID:        "id-1",
		Title:     "Old Title",
		Content:   "Old Content",
		Completed: true,
	}

	tests := []struct {
		name     string
		options  []task.TaskOption
		expected task.Task
	}{
		{
			name:     "no options",
			options:  nil,
			expected: base,
		},
		{
			name:    "empty title and content keep existing values",
			options: []task.TaskOption{task.WithTitle(""), task.WithContent("")},
			expected: task.Task{
				ID: "id-1", Title: "Old Title", Content: "Old Content", Completed: true,
			},
		},
		{
			name:    "non-empty values replace",
			options: []task.TaskOption{task.WithTitle("New Title"), task.WithContent("New Content")},
			expected: task.Task{
				ID: "id-1", Title: "New Title", Content: "New Content", Completed: true,
			},
		},
		{
			name:    "explicit false is applied",
			options: []task.TaskOption{task.WithCompleted(false)},
			expected: task.Task{
				ID: "id-1", Title: "Old Title", Content: "Old Content", Completed: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			task.Apply(&got, tt.options...)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTaskOptions_EmptyStringsAreNil(t *testing.T) {
	assert.Nil(t, task.WithTitle(""))
	assert.Nil(t, task.WithContent(""))
	assert.NotNil(t, task.WithCompleted(false))
}
