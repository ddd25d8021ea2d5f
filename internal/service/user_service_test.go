package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/mocks"
	"github.com/todoapi/server/internal/service"
	"github.com/todoapi/server/internal/service/auth"
	"github.com/todoapi/server/internal/store"
)

const testPassword = "correct-horse-battery"

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	m := mocks.NewMemoryStore()
	svc := service.NewUserService(m.Users(), auth.NewBcryptVerifier(), nil, quietLogger())
	ctx := context.Background()

	user, err := svc.Register(ctx, "New.User@Example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationsDisabled, user.NotificationPreference)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.HashedPassword)

	got, err := svc.Authenticate(ctx, "new.user@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "new.user@example.com", "not-the-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestUserService_RegisterRejects(t *testing.T) {
	t.Parallel()

	m := mocks.NewMemoryStore()
	svc := service.NewUserService(m.Users(), &mocks.MockPasswordVerifier{}, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@example.com", testPassword)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "DUP@example.com", testPassword)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	_, err = svc.Register(ctx, "not-an-email", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(ctx, "short@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestUserService_AuthenticateUsesVerifier(t *testing.T) {
	t.Parallel()

	m := mocks.NewMemoryStore()
	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	svc := service.NewUserService(m.Users(), verifier, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.Register(ctx, "v@example.com", testPassword)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "v@example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, 1, verifier.CompareCallCount)
}
