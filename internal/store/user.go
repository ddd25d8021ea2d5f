package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetNotificationPreference returns the stored preference of a user.
	// Returns ErrUserNotFound if the user does not exist.
	GetNotificationPreference(ctx context.Context, id uuid.UUID) (domain.NotificationPreference, error)

	// UpdateNotificationPreference persists a new preference for a user.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateNotificationPreference(
		ctx context.Context,
		id uuid.UUID,
		pref domain.NotificationPreference,
	) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
