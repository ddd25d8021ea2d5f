package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/domain/reminder"
	"github.com/todoapi/server/internal/platform/logger"
	"github.com/todoapi/server/internal/platform/notifier"
	"github.com/todoapi/server/internal/store"
)

// NotifySummary reports the outcome of one dispatcher run.
type NotifySummary struct {
	UsersScanned  int
	UsersNotified int
	TasksMarked   int64
	SendFailures  int
	StoreFailures int
}

// ResetSummary reports the outcome of one reset scan.
type ResetSummary struct {
	TasksReset int64
}

// NotificationService sends due-date reminders and re-arms tasks whose
// reminder has gone stale.
type NotificationService struct {
	users  store.UserStore
	sender notifier.Sender
	params reminder.Params
	now    func() time.Time
	logger *slog.Logger
}

// NotificationOption configures a NotificationService.
type NotificationOption func(*NotificationService)

// WithClock replaces the wall clock used to stamp runs.
func WithClock(now func() time.Time) NotificationOption {
	return func(s *NotificationService) {
		s.now = now
	}
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(
	users store.UserStore,
	sender notifier.Sender,
	params reminder.Params,
	logger *slog.Logger,
	opts ...NotificationOption,
) (*NotificationService, error) {
	if users == nil {
		return nil, &NotificationServiceError{Operation: "create_service", Message: "user store cannot be nil"}
	}
	if sender == nil {
		return nil, &NotificationServiceError{Operation: "create_service", Message: "sender cannot be nil"}
	}
	if err := params.Validate(); err != nil {
		return nil, NewNotificationServiceError("create_service", "invalid reminder parameters", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &NotificationService{
		users:  users,
		sender: sender,
		params: params,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("component", "notification_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NotifyUsers sends one reminder per opted-in user listing their due tasks
// and marks those tasks notified once the send succeeds. A failed send
// leaves the tasks unmarked, so they are retried on the next run.
//
// Failure to list users aborts the run. Failures for a single user are
// counted in the summary and the run moves on to the next user.
func (s *NotificationService) NotifyUsers(ctx context.Context, ns store.NotificationStore) (NotifySummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	var summary NotifySummary

	users, err := ns.ListUsersWithNotificationsEnabled(ctx)
	if err != nil {
		log.Error("failed to list users with notifications enabled", "error", err)
		return summary, NewNotificationServiceError("notify_users", "failed to list users", err)
	}

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return summary, NewNotificationServiceError("notify_users", "run cancelled", err)
		}
		summary.UsersScanned++

		tasks, err := ns.ListNotifiableTasks(ctx, user.ID, now)
		if err != nil {
			summary.StoreFailures++
			log.Error("failed to list notifiable tasks",
				"error", err,
				"user_id", user.ID)
			continue
		}

		due := reminder.FilterDue(tasks, now)
		if len(due) == 0 {
			continue
		}

		to := notifier.Recipient{UserID: user.ID, Address: user.Email}
		if err := s.sender.Send(ctx, to, BuildReminder(due)); err != nil {
			summary.SendFailures++
			log.Warn("failed to send reminder",
				"error", err,
				"user_id", user.ID,
				"task_count", len(due))
			continue
		}

		marked, err := ns.MarkTasksNotified(ctx, taskIDs(due), now)
		if err != nil {
			summary.StoreFailures++
			log.Error("failed to mark tasks notified",
				"error", err,
				"user_id", user.ID,
				"task_count", len(due))
			continue
		}

		summary.UsersNotified++
		summary.TasksMarked += marked
		log.Debug("reminder sent",
			"user_id", user.ID,
			"task_count", len(due),
			"marked", marked)
	}

	log.Info("notification run finished",
		"users_scanned", summary.UsersScanned,
		"users_notified", summary.UsersNotified,
		"tasks_marked", summary.TasksMarked,
		"send_failures", summary.SendFailures,
		"store_failures", summary.StoreFailures)

	return summary, nil
}

// ResetNotifiedTasks clears the notified flag on pending, due tasks whose
// last reminder is at least the reset window old.
func (s *NotificationService) ResetNotifiedTasks(ctx context.Context, ns store.NotificationStore) (ResetSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	n, err := ns.ResetStaleNotifications(ctx, now, s.params.ResetWindow)
	if err != nil {
		log.Error("failed to reset stale notifications",
			"error", err,
			"reset_window", s.params.ResetWindow)
		return ResetSummary{}, NewNotificationServiceError("reset_notified_tasks", "failed to reset tasks", err)
	}

	log.Info("reset run finished", "tasks_reset", n)
	return ResetSummary{TasksReset: n}, nil
}

// SetNotificationPreference parses raw and stores it as the user's preference.
// Returns domain.ErrInvalidNotificationPreference for an unknown value and
// store.ErrUserNotFound for an unknown user.
func (s *NotificationService) SetNotificationPreference(
	ctx context.Context,
	userID uuid.UUID,
	raw string,
) (domain.NotificationPreference, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pref, err := domain.ParseNotificationPreference(raw)
	if err != nil {
		log.Debug("rejected notification preference",
			"user_id", userID,
			"value", raw)
		return "", err
	}

	if err := s.users.UpdateNotificationPreference(ctx, userID, pref); err != nil {
		log.Error("failed to update notification preference",
			"error", err,
			"user_id", userID)
		return "", NewNotificationServiceError("set_notification_preference", "failed to update preference", err)
	}

	log.Info("notification preference updated",
		"user_id", userID,
		"notification", pref)
	return pref, nil
}

// GetNotificationPreference returns the user's stored preference.
func (s *NotificationService) GetNotificationPreference(
	ctx context.Context,
	userID uuid.UUID,
) (domain.NotificationPreference, error) {
	pref, err := s.users.GetNotificationPreference(ctx, userID)
	if err != nil {
		return "", NewNotificationServiceError("get_notification_preference", "failed to read preference", err)
	}
	return pref, nil
}

// BuildReminder renders the reminder for a set of due tasks.
func BuildReminder(tasks []*domain.Task) notifier.Message {
	msg := notifier.Message{Lines: make([]string, 0, len(tasks))}
	if len(tasks) == 1 {
		msg.Subject = "1 task due"
	} else {
		msg.Subject = fmt.Sprintf("%d tasks due", len(tasks))
	}
	for _, t := range tasks {
		msg.Lines = append(msg.Lines, fmt.Sprintf("%s (due %s)", t.Name, t.DueDate.UTC().Format(time.DateOnly)))
	}
	return msg
}

func taskIDs(tasks []*domain.Task) []uuid.UUID {
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// NotificationRunner runs the notification service against a fresh store
// session per call. It is what the scheduled jobs invoke.
type NotificationRunner struct {
	svc      *NotificationService
	sessions store.SessionFactory
}

// NewNotificationRunner creates a NotificationRunner.
func NewNotificationRunner(svc *NotificationService, sessions store.SessionFactory) *NotificationRunner {
	return &NotificationRunner{svc: svc, sessions: sessions}
}

// Notify performs one dispatcher run in its own session.
func (r *NotificationRunner) Notify(ctx context.Context) error {
	return store.WithSession(ctx, r.sessions, func(sess store.Session) error {
		_, err := r.svc.NotifyUsers(ctx, sess.Notifications())
		return err
	})
}

// Reset performs one reset scan in its own session.
func (r *NotificationRunner) Reset(ctx context.Context) error {
	return store.WithSession(ctx, r.sessions, func(sess store.Session) error {
		_, err := r.svc.ResetNotifiedTasks(ctx, sess.Notifications())
		return err
	})
}
