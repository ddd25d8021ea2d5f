package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/todoapi/server/internal/api/shared"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/service"
	"github.com/todoapi/server/internal/service/auth"
	"github.com/todoapi/server/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that never
// contains driver or infrastructure details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrInvalidNotificationPreference):
		return "Notification must be either 'enabled' or 'disabled'"
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Status must be either 'pending' or 'done'"
	case errors.Is(err, domain.ErrInvalidTaskListOptions):
		return "Limit must be a positive integer"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case domain.IsValidationError(err):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage returns the text of the domain validation sentinel in
// err's chain. Those messages are written for end users.
func validationMessage(err error) string {
	cause := domain.ValidationCause(err)
	if cause == nil {
		return "Validation error"
	}
	msg := cause.Error()
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted error. fallback replaces the safe message for 5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns validator errors into a short message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fieldName(fe)
		if msg := tagMessage(fe.Tag()); msg != "" {
			return fmt.Sprintf("Invalid %s: %s", field, msg)
		}
		return fmt.Sprintf("Invalid %s", field)
	}
	return "Validation error"
}

// fieldName prefers the JSON name registered on the validator.
func fieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "validation failed"
	}
}
