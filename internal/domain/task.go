package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the completion state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

// Field limits mirrored by the database schema.
const (
	MaxTaskNameLength     = 255
	MaxTaskCategoryLength = 255
)

// Common validation errors for Task
var (
	ErrEmptyTaskID            = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID        = errors.New("task user ID cannot be empty")
	ErrEmptyTaskName          = errors.New("task name cannot be empty")
	ErrTaskNameTooLong        = errors.New("task name must be at most 255 characters long")
	ErrTaskCategoryTooLong    = errors.New("task category must be at most 255 characters long")
	ErrEmptyDueDate           = errors.New("task due date cannot be empty")
	ErrNotifiedWithoutTime    = errors.New("notified task must have a last notified time")
	ErrInvalidTaskListOptions = errors.New("invalid task list options")
)

// Task is a to-do item owned by a user.
//
// Notified and LastNotified belong to the reminder scheduler; the task API
// never writes them. Notified implies LastNotified is set.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Name         string     `json:"task_name"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	CreatedAt    time.Time  `json:"date_created"`
	DueDate      time.Time  `json:"due_date"`
	Status       TaskStatus `json:"status"`
	Notified     bool       `json:"notified"`
	LastNotified *time.Time `json:"last_notified,omitempty"`
}

// NewTask creates a pending, not-yet-notified task for the given user.
// The due date is truncated to its UTC calendar day.
func NewTask(userID uuid.UUID, name, description, category string, dueDate time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Category:    strings.TrimSpace(category),
		CreatedAt:   time.Now().UTC(),
		DueDate:     NormalizeDate(dueDate),
		Status:      TaskStatusPending,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if len(t.Name) > MaxTaskNameLength {
		return ErrTaskNameTooLong
	}

	if len(t.Category) > MaxTaskCategoryLength {
		return ErrTaskCategoryTooLong
	}

	if t.DueDate.IsZero() {
		return ErrEmptyDueDate
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if t.Notified && t.LastNotified == nil {
		return ErrNotifiedWithoutTime
	}

	return nil
}

// IsDone reports whether the task has been completed.
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// ParseTaskStatus converts a raw value into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, raw)
	}
	return s, nil
}

// IsValid reports whether s is one of the known status values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusDone:
		return true
	default:
		return false
	}
}

// NormalizeDate returns midnight UTC of the calendar day t falls on in UTC.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// TaskUpdate carries a partial update to a task's user-editable fields.
// Nil fields are left unchanged.
type TaskUpdate struct {
	Name        *string
	Description *string
	Category    *string
	DueDate     *time.Time
	Status      *TaskStatus
}

// Apply copies the set fields of u onto t and re-validates the result.
func (u TaskUpdate) Apply(t *Task) error {
	if u.Name != nil {
		t.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Category != nil {
		t.Category = strings.TrimSpace(*u.Category)
	}
	if u.DueDate != nil {
		t.DueDate = NormalizeDate(*u.DueDate)
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	return t.Validate()
}

// TaskListOptions filters a user's task listing.
type TaskListOptions struct {
	// Category restricts results to one category when non-empty.
	Category string
	// Limit caps the number of results; must be positive.
	Limit int
}

// Validate checks the listing options.
func (o TaskListOptions) Validate() error {
	if o.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidTaskListOptions)
	}
	return nil
}
