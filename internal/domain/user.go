package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the to-do application.
// Email doubles as the contact address used for task reminders.
type User struct {
	ID                     uuid.UUID              `json:"id"`
	Email                  string                 `json:"email"`
	Password               string                 `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword         string                 `json:"-"`
	NotificationPreference NotificationPreference `json:"notification"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// Notifications start out disabled; the user opts in through the settings endpoint.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:                     uuid.New(),
		Email:                  strings.TrimSpace(email),
		Password:               password,
		NotificationPreference: NotificationsDisabled,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		// bcrypt ignores everything past 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	if !u.NotificationPreference.IsValid() {
		return ErrInvalidNotificationPreference
	}

	return nil
}

// NotificationsEnabled reports whether the user has opted in to reminders.
func (u *User) NotificationsEnabled() bool {
	return u.NotificationPreference == NotificationsEnabled
}

// validateEmailFormat accepts a bare address ("a@b.c"), rejecting display-name forms.
func validateEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
