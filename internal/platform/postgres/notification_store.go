package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/platform/logger"
	"github.com/todoapi/server/internal/store"
)

// PostgresNotificationStore implements store.NotificationStore.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a notification store on db, which is
// usually a dedicated *sql.Conn handed out by a SessionFactory.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// ListUsersWithNotificationsEnabled implements store.NotificationStore
func (s *PostgresNotificationStore) ListUsersWithNotificationsEnabled(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE notification = $1 ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, domain.NotificationsEnabled)
	if err != nil {
		log.Error("failed to list users with notifications enabled", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list_notifiable", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var scanned []userRow
	if err := sqlx.StructScan(rows, &scanned); err != nil {
		return nil, store.NewStoreError("user", "list_notifiable", "scan failed", err)
	}

	users := make([]*domain.User, 0, len(scanned))
	for _, r := range scanned {
		users = append(users, r.toDomain())
	}
	return users, nil
}

// ListNotifiableTasks implements store.NotificationStore
func (s *PostgresNotificationStore) ListNotifiableTasks(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND notified = FALSE
		  AND status <> $2
		  AND due_date <= $3::date
		ORDER BY due_date, date_created, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, domain.TaskStatusDone, formatDate(now))
	if err != nil {
		log.Error("failed to list notifiable tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("task", "list_notifiable", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var scanned []taskRow
	if err := sqlx.StructScan(rows, &scanned); err != nil {
		return nil, store.NewStoreError("task", "list_notifiable", "scan failed", err)
	}
	return tasksFromRows(scanned), nil
}

// MarkTasksNotified implements store.NotificationStore.
// The notified = FALSE guard makes the update a claim: of two concurrent
// callers with overlapping ids, each row is counted by exactly one.
func (s *PostgresNotificationStore) MarkTasksNotified(
	ctx context.Context,
	taskIDs []uuid.UUID,
	now time.Time,
) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sqlx.In(`
		UPDATE tasks
		SET notified = TRUE, last_notified = ?
		WHERE id IN (?)
		  AND notified = FALSE
		  AND status <> ?
	`, now.UTC(), taskIDs, domain.TaskStatusDone)
	if err != nil {
		return 0, fmt.Errorf("failed to build mark query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to mark tasks notified",
			slog.String("error", err.Error()),
			slog.Int("task_count", len(taskIDs)))
		return 0, store.NewStoreError("task", "mark_notified", "update failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ResetStaleNotifications implements store.NotificationStore
func (s *PostgresNotificationStore) ResetStaleNotifications(
	ctx context.Context,
	now time.Time,
	window time.Duration,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET notified = FALSE
		WHERE notified = TRUE
		  AND status <> $1
		  AND due_date <= $2::date
		  AND last_notified IS NOT NULL
		  AND last_notified <= $3
	`
	result, err := s.db.ExecContext(ctx, query,
		domain.TaskStatusDone, formatDate(now), now.UTC().Add(-window))
	if err != nil {
		log.Error("failed to reset notified tasks", slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "reset_notified", "update failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
