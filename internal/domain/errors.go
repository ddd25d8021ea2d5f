package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTaskStatus is returned when a task status is not one of the known values.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidNotificationPreference is returned when a notification preference
	// is neither "enabled" nor "disabled".
	ErrInvalidNotificationPreference = errors.New("invalid notification preference")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// validationErrors lists every sentinel produced by entity validation.
var validationErrors = []error{
	ErrValidation,
	ErrInvalidID,
	ErrInvalidTaskStatus,
	ErrInvalidNotificationPreference,
	ErrEmptyTaskID,
	ErrEmptyTaskUserID,
	ErrEmptyTaskName,
	ErrTaskNameTooLong,
	ErrTaskCategoryTooLong,
	ErrEmptyDueDate,
	ErrNotifiedWithoutTime,
	ErrInvalidTaskListOptions,
	ErrEmptyUserID,
	ErrInvalidEmail,
	ErrEmptyEmail,
	ErrPasswordTooShort,
	ErrPasswordTooLong,
	ErrEmptyPassword,
	ErrEmptyHashedPassword,
}

// IsValidationError reports whether err stems from invalid user input.
func IsValidationError(err error) bool {
	return ValidationCause(err) != nil
}

// ValidationCause returns the most specific validation sentinel in err's
// chain, or nil. ErrValidation only matches when nothing narrower does.
func ValidationCause(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range validationErrors[1:] {
		if errors.Is(err, target) {
			return target
		}
	}
	if errors.Is(err, ErrValidation) {
		return ErrValidation
	}
	return nil
}
