package inmemory

import (
	"context"
	"sync"
	"time"

	"taskapi/internal/logger"
	"taskapi/internal/models/task"
	repo "taskapi/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStorage keeps tasks in insertion order. Every method holds mtx for
// its whole duration.
type TaskStorage struct {
	mtx   sync.Mutex
	tasks []task.Task
	now   func() time.Time
}

type Option func(*TaskStorage)

// WithClock replaces time.Now as the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStorage) {
		s.now = now
	}
}

func NewTaskStorage(opts ...Option) *TaskStorage {
	s := &TaskStorage{
		tasks: []task.Task{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	logger.Debug("Repository: in-memory storage is available")
	return nil
}

func (s *TaskStorage) Len(ctx context.Context) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.tasks)
}

// Create fills in the id, completion flag and timestamps of taskToCreate
// and appends it. Title uniqueness is checked under the same lock.
func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i := range s.tasks {
		if s.tasks[i].Title == taskToCreate.Title {
			return repo.ErrTitleExists
		}
	}

	now := s.now().UTC()
	taskToCreate.ID = uuid.NewString()
	taskToCreate.Completed = false
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	s.tasks = append(s.tasks, *taskToCreate)
	logger.Debug("Repository: task stored", zap.String("task_id", taskToCreate.ID))
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id string) (task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], nil
		}
	}
	return task.Task{}, repo.ErrNotFound
}

// Update replaces the stored record with a copy that has the options
// applied. ID and CreatedAt are never changed.
func (s *TaskStorage) Update(ctx context.Context, id string, options ...task.TaskOption) (task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}

		updated := s.tasks[i]
		task.Apply(&updated, options...)
		updated.ID = s.tasks[i].ID
		updated.CreatedAt = s.tasks[i].CreatedAt
		updated.UpdatedAt = s.nextUpdatedAt(s.tasks[i].UpdatedAt)

		s.tasks[i] = updated
		return updated, nil
	}
	return task.Task{}, repo.ErrNotFound
}

// nextUpdatedAt returns the current time, or one nanosecond past prev when
// the clock has not moved forward.
func (s *TaskStorage) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// Delete removes every task with the given id.
func (s *TaskStorage) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		return repo.ErrNotFound
	}

	// clear the tail so removed tasks are not retained by the backing array
	clear(s.tasks[len(kept):])
	s.tasks = kept
	return nil
}

// GetAllWithLimit returns at most limit tasks starting at (page-1)*limit.
func (s *TaskStorage) GetAllWithLimit(ctx context.Context, page, limit int) ([]task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	res := []task.Task{}
	if page < 1 || limit < 1 {
		return res, nil
	}

	if page-1 > len(s.tasks)/limit {
		return res, nil
	}
	offset := (page - 1) * limit
	if offset >= len(s.tasks) {
		return res, nil
	}

	end := len(s.tasks)
	if limit < end-offset {
		end = offset + limit
	}
	return append(res, s.tasks[offset:end]...), nil
}
