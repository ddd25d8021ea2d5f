package reminder

import (
	"time"

	"github.com/todoapi/server/internal/domain"
)

// IsDueForNotification reports whether a reminder should be sent for task at now.
//
// A task is due when it is still pending, has not been flagged as notified in
// the current window, and its due date (day granularity, UTC) is today or
// earlier.
func IsDueForNotification(task *domain.Task, now time.Time) bool {
	if task == nil || task.IsDone() || task.Notified {
		return false
	}
	return dueDateArrived(task, now)
}

// IsEligibleForReset reports whether a notified task may be re-armed so that
// the next notify scan reminds the user again.
//
// A task that was never notified (LastNotified nil) is never eligible.
func IsEligibleForReset(task *domain.Task, now time.Time, window time.Duration) bool {
	if task == nil || task.IsDone() || !task.Notified || task.LastNotified == nil {
		return false
	}
	if !dueDateArrived(task, now) {
		return false
	}
	return now.UTC().Sub(task.LastNotified.UTC()) >= window
}

// FilterDue returns the tasks that are due for notification at now,
// preserving their order.
func FilterDue(tasks []*domain.Task, now time.Time) []*domain.Task {
	due := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsDueForNotification(t, now) {
			due = append(due, t)
		}
	}
	return due
}

// dueDateArrived compares calendar days in UTC.
func dueDateArrived(task *domain.Task, now time.Time) bool {
	return !domain.NormalizeDate(task.DueDate).After(domain.NormalizeDate(now))
}
