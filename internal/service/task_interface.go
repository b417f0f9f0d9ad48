package service

import (
	"context"

	"taskapi/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, taskToCreate *task.Task) error
	GetByID(ctx context.Context, id string) (task.Task, error)
	Update(ctx context.Context, id string, options ...task.TaskOption) (task.Task, error)
	Delete(ctx context.Context, id string) error
	GetAllWithLimit(ctx context.Context, page, limit int) ([]task.Task, error)
}
