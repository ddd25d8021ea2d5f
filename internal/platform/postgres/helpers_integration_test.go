//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/platform/postgres"
	"github.com/todoapi/server/internal/store"
)

// testBcryptCost keeps password hashing fast in tests.
const testBcryptCost = 4

func createTestUser(t *testing.T, db store.DBTX, email string, pref domain.NotificationPreference) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password-long-enough")
	require.NoError(t, err)
	user.NotificationPreference = pref
	require.NoError(t, postgres.NewPostgresUserStore(db, testBcryptCost, nil).Create(context.Background(), user))
	return user
}

func createTestTask(t *testing.T, db store.DBTX, user *domain.User, name string, due time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(user.ID, name, "", "test", due)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresTaskStore(db, nil).Create(context.Background(), task))
	return task
}
