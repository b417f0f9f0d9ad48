package service

import (
	"context"
	"errors"
	"fmt"

	"taskapi/internal/logger"
	"taskapi/internal/models/task"
	repo "taskapi/internal/repository"

	"go.uber.org/zap"
)

// fileNotFoundMessage is returned by the file upload placeholder.
const fileNotFoundMessage = "Task with ID:not found"

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository health check: %w", err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, page, limit int) ([]task.Task, error) {
	tasks, err := s.repo.GetAllWithLimit(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, content string) (task.Task, error) {
	newTask := &task.Task{
		Title:   title,
		Content: content,
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		if errors.Is(err, repo.ErrTitleExists) {
			logger.Debug("Service: duplicate title", zap.String("title", title))
			return task.Task{}, NewConflict(title, err)
		}
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	return *newTask, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (task.Task, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, s.wrapLookupError(id, "get task", err)
	}
	return found, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, options ...task.TaskOption) (task.Task, error) {
	updated, err := s.repo.Update(ctx, id, options...)
	if err != nil {
		return task.Task{}, s.wrapLookupError(id, "update task", err)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrapLookupError(id, "delete task", err)
	}
	return nil
}

// SaveFile is a placeholder for file uploads. It checks the store is
// reachable and then always reports not found.
func (s *TaskService) SaveFile(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return NewBusinessError(CodeNotFound, fileNotFoundMessage, ToDetail("resource", "file"))
}

func (s *TaskService) wrapLookupError(id, op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		logger.Debug("Service: task not found", zap.String("target_id", id))
		return NewNotFound(id, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
