package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/todoapi/server/internal/store"
)

// SessionFactory hands out sessions bound to one pooled connection each.
type SessionFactory struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSessionFactory creates a SessionFactory over db.
func NewSessionFactory(db *sql.DB, logger *slog.Logger) *SessionFactory {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionFactory{db: db, logger: logger}
}

var _ store.SessionFactory = (*SessionFactory)(nil)

// Open implements store.SessionFactory.
func (f *SessionFactory) Open(ctx context.Context) (store.Session, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrSessionUnavailable, err)
	}
	return &session{
		conn:          conn,
		notifications: NewPostgresNotificationStore(conn, f.logger),
	}, nil
}

type session struct {
	conn          *sql.Conn
	notifications *PostgresNotificationStore
}

func (s *session) Notifications() store.NotificationStore {
	return s.notifications
}

// Close returns the connection to the pool.
func (s *session) Close() error {
	return s.conn.Close()
}
