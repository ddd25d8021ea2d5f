//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/platform/postgres"
	"github.com/todoapi/server/internal/store"
	"github.com/todoapi/server/internal/testdb"
)

func TestPostgresTaskStore_CRUD(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx, nil)
		owner := createTestUser(t, tx, "owner@example.com", domain.NotificationsDisabled)
		other := createTestUser(t, tx, "other@example.com", domain.NotificationsDisabled)

		due := time.Date(2025, time.June, 1, 22, 30, 0, 0, time.UTC)
		task := createTestTask(t, tx, owner, "file taxes", due)

		got, err := s.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "file taxes", got.Name)
		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), got.DueDate)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		assert.False(t, got.Notified)
		assert.Nil(t, got.LastNotified)

		_, err = s.GetByID(ctx, other.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound, "tasks are scoped to their owner")

		got.Status = domain.TaskStatusDone
		got.Name = "file taxes early"
		require.NoError(t, s.Update(ctx, got))

		updated, err := s.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.True(t, updated.IsDone())
		assert.Equal(t, "file taxes early", updated.Name)

		assert.ErrorIs(t, s.Delete(ctx, other.ID, task.ID), store.ErrTaskNotFound)
		require.NoError(t, s.Delete(ctx, owner.ID, task.ID))
		_, err = s.GetByID(ctx, owner.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_List(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx, nil)
		owner := createTestUser(t, tx, "lister@example.com", domain.NotificationsDisabled)

		now := time.Now()
		for i := 0; i < 3; i++ {
			task, err := domain.NewTask(owner.ID, "work item", "", "work", now)
			require.NoError(t, err)
			task.CreatedAt = now.Add(time.Duration(i) * time.Second).UTC()
			require.NoError(t, s.Create(ctx, task))
		}
		createTestTask(t, tx, owner, "groceries", now)

		all, err := s.List(ctx, owner.ID, domain.TaskListOptions{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, all, 4)

		work, err := s.List(ctx, owner.ID, domain.TaskListOptions{Category: "work", Limit: 2})
		require.NoError(t, err)
		require.Len(t, work, 2)
		assert.True(t, work[0].CreatedAt.After(work[1].CreatedAt), "newest first")

		_, err = s.List(ctx, owner.ID, domain.TaskListOptions{Limit: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidTaskListOptions)
	})
}

func TestPostgresTaskStore_CreateUnknownOwner(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		task, err := domain.NewTask(uuid.New(), "orphan", "", "", time.Now())
		require.NoError(t, err)

		err = postgres.NewPostgresTaskStore(tx, nil).Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTasksCascadeWithUser(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		owner := createTestUser(t, tx, "cascade@example.com", domain.NotificationsDisabled)
		task := createTestTask(t, tx, owner, "vanishes", time.Now())

		_, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, owner.ID)
		require.NoError(t, err)

		_, err = postgres.NewPostgresTaskStore(tx, nil).GetByID(ctx, owner.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}
