package service

import (
	"errors"
	"fmt"

	"github.com/todoapi/server/internal/store"
)

// Common service errors, checked by callers with errors.Is.
//
// Error handling principles:
//  1. Service methods return sentinel errors for expected conditions
//  2. Unexpected errors are wrapped in service-specific error types
//  3. The API layer maps service errors to HTTP status codes
var (
	// ErrInvalidCredentials indicates a login with an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// knownSentinels are returned unwrapped so callers and the API layer can
// match them without unpacking a service error.
var knownSentinels = []error{
	store.ErrUserNotFound,
	store.ErrTaskNotFound,
	store.ErrEmailExists,
}

func sentinelOf(err error) error {
	for _, s := range knownSentinels {
		if errors.Is(err, s) {
			return s
		}
	}
	return nil
}

// NotificationServiceError wraps errors from the notification service with context.
type NotificationServiceError struct {
	// Operation is the operation that failed (e.g. "notify_users", "reset_notified_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for NotificationServiceError.
func (e *NotificationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("notification service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NotificationServiceError) Unwrap() error {
	return e.Err
}

// NewNotificationServiceError creates a new NotificationServiceError.
// It returns known sentinel errors directly without wrapping.
func NewNotificationServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if s := sentinelOf(err); s != nil {
		return s
	}
	return &NotificationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if s := sentinelOf(err); s != nil {
		return s
	}
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
