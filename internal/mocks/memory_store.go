package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/domain"
	"github.com/todoapi/server/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is an in-memory stand-in for the PostgreSQL stores. It follows
// the same query semantics, including the conditional claim in
// MarkTasksNotified, and is safe for concurrent use.
//
// The error fields inject failures into the notification queries.
type MemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	tasks map[uuid.UUID]*domain.Task

	ListUsersErr error
	// ListTasksErrFn, when set, is consulted before listing a user's tasks.
	ListTasksErrFn func(userID uuid.UUID) error
	MarkErr        error
	ResetErr       error

	// MarkCalls counts MarkTasksNotified invocations.
	MarkCalls int
}

var (
	_ store.UserStore         = (*memoryUsers)(nil)
	_ store.TaskStore         = (*memoryTasks)(nil)
	_ store.NotificationStore = (*memoryNotifications)(nil)
)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*domain.User),
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Users returns a store.UserStore view of m.
func (m *MemoryStore) Users() store.UserStore { return &memoryUsers{m} }

// Tasks returns a store.TaskStore view of m.
func (m *MemoryStore) Tasks() store.TaskStore { return &memoryTasks{m} }

// Notifications returns a store.NotificationStore view of m.
func (m *MemoryStore) Notifications() store.NotificationStore { return &memoryNotifications{m} }

// AddUser inserts a user without validation or hashing.
func (m *MemoryStore) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.users[u.ID] = &c
}

// AddTask inserts a task as-is, including its notification fields.
func (m *MemoryStore) AddTask(t *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = copyTask(t)
}

// Task returns a copy of the stored task, or nil.
func (m *MemoryStore) Task(id uuid.UUID) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil
	}
	return copyTask(t)
}

// SetTaskStatus overwrites a task's status.
func (m *MemoryStore) SetTaskStatus(id uuid.UUID, status domain.TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = status
	}
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.LastNotified != nil {
		ln := *t.LastNotified
		c.LastNotified = &ln
	}
	return &c
}

func utcDay(t time.Time) time.Time {
	return domain.NormalizeDate(t)
}

type memoryUsers struct{ m *MemoryStore }

func (s *memoryUsers) WithTx(*sql.Tx) store.UserStore { return s }

func (s *memoryUsers) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}
	user.Email = strings.ToLower(user.Email)

	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	c := *user
	s.m.users[user.ID] = &c
	return nil
}

func (s *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memoryUsers) GetNotificationPreference(
	_ context.Context,
	id uuid.UUID,
) (domain.NotificationPreference, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return "", store.ErrUserNotFound
	}
	return u.NotificationPreference, nil
}

func (s *memoryUsers) UpdateNotificationPreference(
	_ context.Context,
	id uuid.UUID,
	pref domain.NotificationPreference,
) error {
	if !pref.IsValid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidNotificationPreference)
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.NotificationPreference = pref
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type memoryTasks struct{ m *MemoryStore }

func (s *memoryTasks) WithTx(*sql.Tx) store.TaskStore { return s }

func (s *memoryTasks) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[task.UserID]; !ok {
		return fmt.Errorf("%w: unknown owner", store.ErrInvalidEntity)
	}
	if _, ok := s.m.tasks[task.ID]; ok {
		return store.ErrDuplicate
	}
	s.m.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *memoryTasks) GetByID(_ context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(t), nil
}

func (s *memoryTasks) List(
	_ context.Context,
	userID uuid.UUID,
	opts domain.TaskListOptions,
) ([]*domain.Task, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.m.mu.Lock()
	var out []*domain.Task
	for _, t := range s.m.tasks {
		if t.UserID != userID {
			continue
		}
		if opts.Category != "" && t.Category != opts.Category {
			continue
		}
		out = append(out, copyTask(t))
	}
	s.m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *memoryTasks) Update(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tasks[task.ID]
	if !ok || t.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	t.Name = task.Name
	t.Description = task.Description
	t.Category = task.Category
	t.DueDate = task.DueDate
	t.Status = task.Status
	return nil
}

func (s *memoryTasks) Delete(_ context.Context, userID, taskID uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tasks[taskID]
	if !ok || t.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(s.m.tasks, taskID)
	return nil
}

type memoryNotifications struct{ m *MemoryStore }

func (s *memoryNotifications) ListUsersWithNotificationsEnabled(context.Context) ([]*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.ListUsersErr != nil {
		return nil, s.m.ListUsersErr
	}
	var out []*domain.User
	for _, u := range s.m.users {
		if u.NotificationPreference == domain.NotificationsEnabled {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *memoryNotifications) ListNotifiableTasks(
	_ context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.ListTasksErrFn != nil {
		if err := s.m.ListTasksErrFn(userID); err != nil {
			return nil, err
		}
	}
	today := utcDay(now)
	var out []*domain.Task
	for _, t := range s.m.tasks {
		if t.UserID == userID && t.Status != domain.TaskStatusDone && !t.Notified && !utcDay(t.DueDate).After(today) {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out, nil
}

func (s *memoryNotifications) MarkTasksNotified(
	_ context.Context,
	taskIDs []uuid.UUID,
	now time.Time,
) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.MarkCalls++
	if s.m.MarkErr != nil {
		return 0, s.m.MarkErr
	}
	now = now.UTC()
	var n int64
	for _, id := range taskIDs {
		t, ok := s.m.tasks[id]
		if !ok || t.Notified || t.Status == domain.TaskStatusDone {
			continue
		}
		at := now
		t.Notified = true
		t.LastNotified = &at
		n++
	}
	return n, nil
}

func (s *memoryNotifications) ResetStaleNotifications(
	_ context.Context,
	now time.Time,
	window time.Duration,
) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.ResetErr != nil {
		return 0, s.m.ResetErr
	}
	today := utcDay(now)
	threshold := now.Add(-window)
	var n int64
	for _, t := range s.m.tasks {
		if !t.Notified || t.Status == domain.TaskStatusDone || t.LastNotified == nil {
			continue
		}
		if utcDay(t.DueDate).After(today) || t.LastNotified.After(threshold) {
			continue
		}
		t.Notified = false
		n++
	}
	return n, nil
}
