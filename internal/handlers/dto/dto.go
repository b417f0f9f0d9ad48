package dto

import (
	"taskapi/internal/models/task"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// CreateTaskRequest carries the create payload. Completed is accepted but
// new tasks always start incomplete.
type CreateTaskRequest struct {
	Title     *string `json:"title" validate:"required,min=1"`
	Content   *string `json:"content" validate:"required"`
	Completed *bool   `json:"completed,omitempty"`
}

// UpdateTaskRequest fields are optional. An absent or empty title or
// content leaves the stored value unchanged.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (r UpdateTaskRequest) Options() []task.TaskOption {
	var options []task.TaskOption
	if r.Title != nil {
		options = append(options, task.WithTitle(*r.Title))
	}
	if r.Content != nil {
		options = append(options, task.WithContent(*r.Content))
	}
	if r.Completed != nil {
		options = append(options, task.WithCompleted(*r.Completed))
	}
	return options
}

type ListQuery struct {
	Page  int `validate:"gte=0"`
	Limit int `validate:"gte=0"`
}

type GenericResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type TaskData struct {
	Task task.Task `json:"task"`
}

type SingleTaskResponse struct {
	Status string   `json:"status"`
	Data   TaskData `json:"data"`
}

type TaskListResponse struct {
	Status  string      `json:"status"`
	Results int         `json:"results"`
	Tasks   []task.Task `json:"tasks"`
}

func NewSingleTaskResponse(t task.Task) SingleTaskResponse {
	return SingleTaskResponse{
		Status: StatusSuccess,
		Data:   TaskData{Task: t},
	}
}

func NewTaskListResponse(tasks []task.Task) TaskListResponse {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return TaskListResponse{
		Status:  StatusSuccess,
		Results: len(tasks),
		Tasks:   tasks,
	}
}
