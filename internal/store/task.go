package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
)

// TaskStore defines the interface for user-facing task persistence.
// Every read and write is scoped to the owning user; a task owned by
// someone else is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the task fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task owned by userID.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List returns the tasks of userID, newest first, filtered by opts.
	List(ctx context.Context, userID uuid.UUID, opts domain.TaskListOptions) ([]*domain.Task, error)

	// Update persists the user-editable fields of task. The notification
	// fields are never written through this method.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by userID.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
