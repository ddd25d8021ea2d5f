package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/platform/logger"
	"github.com/todoapi/server/internal/store"
)

// CreateTaskParams holds the user-supplied fields of a new task.
type CreateTaskParams struct {
	Name        string
	Description string
	Category    string
	DueDate     time.Time
}

// TaskService provides user-scoped task operations.
type TaskService interface {
	// CreateTask creates a pending task owned by userID.
	CreateTask(ctx context.Context, userID uuid.UUID, params CreateTaskParams) (*domain.Task, error)

	// GetTask retrieves one task owned by userID.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks lists the tasks owned by userID.
	ListTasks(ctx context.Context, userID uuid.UUID, opts domain.TaskListOptions) ([]*domain.Task, error)

	// UpdateTask applies a partial update to a task owned by userID.
	// The notification fields are never changed by an update.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task owned by userID.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	db        store.TxBeginner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService. When db is non-nil, updates run
// their read-modify-write inside a transaction.
func NewTaskService(taskStore store.TaskStore, db store.TxBeginner, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask creates a pending task owned by userID.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, params.Name, params.Description, params.Category, params.DueDate)
	if err != nil {
		log.Debug("rejected task", "error", err, "user_id", userID)
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to save task",
			"error", err,
			"user_id", userID)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"user_id", userID,
		"due_date", task.DueDate.Format(time.DateOnly))
	return task, nil
}

// GetTask retrieves one task owned by userID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks lists the tasks owned by userID.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	opts domain.TaskListOptions,
) ([]*domain.Task, error) {
	if err := opts.Validate(); err != nil {
		return nil, NewTaskServiceError("list_tasks", "invalid list options", err)
	}

	tasks, err := s.taskStore.List(ctx, userID, opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			"error", err,
			"user_id", userID)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update to a task owned by userID.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	apply := func(ctx context.Context, ts store.TaskStore) error {
		task, err := ts.GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := update.Apply(task); err != nil {
			return err
		}
		if err := ts.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return apply(ctx, s.taskStore.WithTx(tx))
		})
	} else {
		err = apply(ctx, s.taskStore)
	}

	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Warn("failed to update task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated", "task_id", taskID, "user_id", userID)
	return updated, nil
}

// DeleteTask removes a task owned by userID.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, userID, taskID); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to delete task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}
