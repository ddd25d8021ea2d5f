package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
)

// DateLayout is the wire format of task due dates.
const DateLayout = time.DateOnly

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	TaskName    string `json:"task_name"   validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Category    string `json:"category"    validate:"max=255"`
	DueDate     string `json:"due_date"    validate:"required,datetime=2006-01-02"`
}

// UpdateTaskRequest defines a partial task update. Absent fields are left
// unchanged. The notification fields cannot be set through the API.
type UpdateTaskRequest struct {
	TaskName    *string `json:"task_name"   validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Category    *string `json:"category"    validate:"omitempty,max=255"`
	DueDate     *string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending done"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	TaskName     string     `json:"task_name"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	DateCreated  time.Time  `json:"date_created"`
	DueDate      string     `json:"due_date"`
	Status       string     `json:"status"`
	Notified     bool       `json:"notified"`
	LastNotified *time.Time `json:"last_notified,omitempty"`
}

// NotificationSettingsRequest sets the reminder preference.
type NotificationSettingsRequest struct {
	Notification string `json:"notification" validate:"required"`
}

// NotificationSettingsResponse reports the reminder preference.
type NotificationSettingsResponse struct {
	Notification string `json:"notification"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		TaskName:     t.Name,
		Description:  t.Description,
		Category:     t.Category,
		DateCreated:  t.CreatedAt,
		DueDate:      t.DueDate.UTC().Format(DateLayout),
		Status:       string(t.Status),
		Notified:     t.Notified,
		LastNotified: t.LastNotified,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

// toTaskUpdate converts the request into a domain update. Dates and
// statuses have already passed struct validation.
func (req UpdateTaskRequest) toTaskUpdate() (domain.TaskUpdate, error) {
	u := domain.TaskUpdate{
		Name:        req.TaskName,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.DueDate != nil {
		due, err := time.Parse(DateLayout, *req.DueDate)
		if err != nil {
			return domain.TaskUpdate{}, domain.ErrValidation
		}
		u.DueDate = &due
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return domain.TaskUpdate{}, err
		}
		u.Status = &status
	}
	return u, nil
}
