package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
)

// NotificationStore holds the queries used by the reminder jobs.
type NotificationStore interface {
	// ListUsersWithNotificationsEnabled returns every user whose preference
	// is enabled, ordered by creation time.
	ListUsersWithNotificationsEnabled(ctx context.Context) ([]*domain.User, error)

	// ListNotifiableTasks returns the tasks of userID that are pending, not
	// yet notified and due on or before the UTC day of now.
	ListNotifiableTasks(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Task, error)

	// MarkTasksNotified sets notified and last_notified=now on the given tasks.
	// Only tasks that are still unnotified and not done are touched, so two
	// concurrent callers cannot both claim the same task. Returns the number
	// of rows changed.
	MarkTasksNotified(ctx context.Context, taskIDs []uuid.UUID, now time.Time) (int64, error)

	// ResetStaleNotifications clears notified on pending tasks whose due date
	// has arrived and whose last notification is at least window old.
	// last_notified is left untouched. Returns the number of rows changed.
	ResetStaleNotifications(ctx context.Context, now time.Time, window time.Duration) (int64, error)
}
