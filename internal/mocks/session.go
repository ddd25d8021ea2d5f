package mocks

import (
	"context"
	"sync/atomic"

	"github.com/todoapi/server/internal/store"
)

// MemorySessionFactory opens sessions over a MemoryStore and counts them.
type MemorySessionFactory struct {
	Store *MemoryStore

	// OpenErr, when set, is returned by Open.
	OpenErr error
	// CloseErr, when set, is returned by every session's Close.
	CloseErr error

	opened atomic.Int64
	closed atomic.Int64
}

var _ store.SessionFactory = (*MemorySessionFactory)(nil)

// NewMemorySessionFactory creates a factory over s.
func NewMemorySessionFactory(s *MemoryStore) *MemorySessionFactory {
	return &MemorySessionFactory{Store: s}
}

// Open implements store.SessionFactory.
func (f *MemorySessionFactory) Open(context.Context) (store.Session, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	f.opened.Add(1)
	return &memorySession{f: f}, nil
}

// Opened reports how many sessions were opened.
func (f *MemorySessionFactory) Opened() int64 { return f.opened.Load() }

// Closed reports how many sessions were closed.
func (f *MemorySessionFactory) Closed() int64 { return f.closed.Load() }

type memorySession struct {
	f *MemorySessionFactory
}

func (s *memorySession) Notifications() store.NotificationStore {
	return s.f.Store.Notifications()
}

func (s *memorySession) Close() error {
	s.f.closed.Add(1)
	return s.f.CloseErr
}
