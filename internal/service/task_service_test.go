package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/mocks"
	"github.com/todoapi/server/internal/service"
	"github.com/todoapi/server/internal/store"
)

func newTaskService(t *testing.T) (service.TaskService, *mocks.MemoryStore, *domain.User) {
	t.Helper()
	m := mocks.NewMemoryStore()
	owner := &domain.User{ID: uuid.New(), Email: "owner@example.com", HashedPassword: "x"}
	m.AddUser(owner)
	return service.NewTaskService(m.Tasks(), nil, quietLogger()), m, owner
}

func TestTaskService_CreateAndGet(t *testing.T) {
	t.Parallel()

	svc, _, owner := newTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, owner.ID, service.CreateTaskParams{
		Name:     "  buy milk ",
		Category: "errands",
		DueDate:  time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Name)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.False(t, created.Notified)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), created.DueDate)

	got, err := svc.GetTask(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetTask(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_CreateRejectsInvalid(t *testing.T) {
	t.Parallel()

	svc, _, owner := newTaskService(t)

	_, err := svc.CreateTask(context.Background(), owner.ID, service.CreateTaskParams{Name: "  ", DueDate: time.Now()})
	assert.ErrorIs(t, err, domain.ErrEmptyTaskName)

	var svcErr *service.TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_task", svcErr.Operation)

	_, err = svc.CreateTask(context.Background(), owner.ID, service.CreateTaskParams{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrEmptyDueDate)
}

func TestTaskService_ListTasks(t *testing.T) {
	t.Parallel()

	svc, _, owner := newTaskService(t)
	ctx := context.Background()
	for _, c := range []string{"home", "work", "home"} {
		_, err := svc.CreateTask(ctx, owner.ID, service.CreateTaskParams{Name: c + " task", Category: c, DueDate: time.Now()})
		require.NoError(t, err)
	}

	all, err := svc.ListTasks(ctx, owner.ID, domain.TaskListOptions{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	home, err := svc.ListTasks(ctx, owner.ID, domain.TaskListOptions{Category: "home", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, home, 2)

	one, err := svc.ListTasks(ctx, owner.ID, domain.TaskListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = svc.ListTasks(ctx, owner.ID, domain.TaskListOptions{Limit: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidTaskListOptions)
}

func TestTaskService_UpdateKeepsNotificationFields(t *testing.T) {
	t.Parallel()

	svc, m, owner := newTaskService(t)
	ctx := context.Background()

	last := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(owner.ID, "pay rent", "", "", last)
	require.NoError(t, err)
	task.Notified = true
	task.LastNotified = &last
	m.AddTask(task)

	newName := "pay rent + utilities"
	newDue := last.Add(72 * time.Hour)
	done := domain.TaskStatusDone
	updated, err := svc.UpdateTask(ctx, owner.ID, task.ID, domain.TaskUpdate{
		Name:    &newName,
		DueDate: &newDue,
		Status:  &done,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, domain.TaskStatusDone, updated.Status)

	stored := m.Task(task.ID)
	assert.True(t, stored.Notified)
	require.NotNil(t, stored.LastNotified)
	assert.True(t, stored.LastNotified.Equal(last))

	pending := domain.TaskStatusPending
	_, err = svc.UpdateTask(ctx, owner.ID, task.ID, domain.TaskUpdate{Status: &pending})
	require.NoError(t, err)
	assert.True(t, m.Task(task.ID).Notified)
}

func TestTaskService_UpdateErrors(t *testing.T) {
	t.Parallel()

	svc, _, owner := newTaskService(t)
	ctx := context.Background()

	_, err := svc.UpdateTask(ctx, owner.ID, uuid.New(), domain.TaskUpdate{})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	created, err := svc.CreateTask(ctx, owner.ID, service.CreateTaskParams{Name: "x", DueDate: time.Now()})
	require.NoError(t, err)

	blank := ""
	_, err = svc.UpdateTask(ctx, owner.ID, created.ID, domain.TaskUpdate{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrEmptyTaskName)

	_, err = svc.UpdateTask(ctx, uuid.New(), created.ID, domain.TaskUpdate{})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	t.Parallel()

	svc, m, owner := newTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, owner.ID, service.CreateTaskParams{Name: "x", DueDate: time.Now()})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteTask(ctx, uuid.New(), created.ID), store.ErrTaskNotFound)
	require.NoError(t, svc.DeleteTask(ctx, owner.ID, created.ID))
	assert.Nil(t, m.Task(created.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, owner.ID, created.ID), store.ErrTaskNotFound)
}

func TestTaskServiceError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, service.NewTaskServiceError("op", "msg", nil))
	assert.Equal(t, store.ErrTaskNotFound, service.NewTaskServiceError("op", "msg", store.ErrTaskNotFound))

	cause := errors.New("boom")
	err := service.NewTaskServiceError("get_task", "failed to retrieve task", cause)
	assert.Equal(t, "task service get_task failed: failed to retrieve task: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := service.NewNotificationServiceError("op", "msg", store.NewStoreError("user", "get", "wrapped", store.ErrUserNotFound))
	assert.Equal(t, store.ErrUserNotFound, wrapped)
}
