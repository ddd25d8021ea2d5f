package store

import "context"

// Session is a unit of work bound to one dedicated database connection.
// Close must be called exactly once when the work is done.
type Session interface {
	Notifications() NotificationStore
	Close() error
}

// SessionFactory opens sessions. Each scheduled job run opens its own.
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

// WithSession opens a session, runs fn with it and always closes it.
// An error from fn takes precedence over an error from Close.
func WithSession(ctx context.Context, factory SessionFactory, fn func(Session) error) (err error) {
	s, err := factory.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
