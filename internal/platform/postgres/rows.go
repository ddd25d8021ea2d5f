package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
)

// dateLayout is how DATE parameters are sent, so the server's TimeZone
// setting never shifts a calendar day.
const dateLayout = "2006-01-02"

const taskColumns = `id, user_id, task_name, description, category, date_created,
	due_date, status, notified, last_notified`

// taskRow is the scan target for the tasks table.
type taskRow struct {
	ID           uuid.UUID    `db:"id"`
	UserID       uuid.UUID    `db:"user_id"`
	Name         string       `db:"task_name"`
	Description  string       `db:"description"`
	Category     string       `db:"category"`
	CreatedAt    time.Time    `db:"date_created"`
	DueDate      time.Time    `db:"due_date"`
	Status       string       `db:"status"`
	Notified     bool         `db:"notified"`
	LastNotified sql.NullTime `db:"last_notified"`
}

func (r taskRow) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt.UTC(),
		DueDate:     domain.NormalizeDate(r.DueDate),
		Status:      domain.TaskStatus(r.Status),
		Notified:    r.Notified,
	}
	if r.LastNotified.Valid {
		ln := r.LastNotified.Time.UTC()
		t.LastNotified = &ln
	}
	return t
}

// tasksFromRows converts scanned rows, preserving order.
func tasksFromRows(rows []taskRow) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toDomain())
	}
	return tasks
}

const userColumns = `id, email, hashed_password, notification, created_at, updated_at`

// userRow is the scan target for the users table.
type userRow struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Notification   string    `db:"notification"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:                     r.ID,
		Email:                  r.Email,
		HashedPassword:         r.HashedPassword,
		NotificationPreference: domain.NotificationPreference(r.Notification),
		CreatedAt:              r.CreatedAt.UTC(),
		UpdatedAt:              r.UpdatedAt.UTC(),
	}
}

func formatDate(t time.Time) string {
	return domain.NormalizeDate(t).Format(dateLayout)
}
