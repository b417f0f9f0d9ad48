package handlers

import (
	"context"

	"taskapi/internal/models/task"
)

type TaskService interface {
	ListTasks(ctx context.Context, page, limit int) ([]task.Task, error)
	CreateTask(ctx context.Context, title, content string) (task.Task, error)
	GetTask(ctx context.Context, id string) (task.Task, error)
	UpdateTask(ctx context.Context, id string, options ...task.TaskOption) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SaveFile(ctx context.Context) error
}
