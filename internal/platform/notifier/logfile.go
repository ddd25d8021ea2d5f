package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/todoapi/server/internal/platform/logger"
)

// LogFileSender appends one line per reminder to a file:
//
//	notification for <address>: <message>
type LogFileSender struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewLogFileSender creates a sender appending to path. The file is created
// on first send if it does not exist.
func NewLogFileSender(path string, logger *slog.Logger) *LogFileSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogFileSender{
		path:   path,
		logger: logger.With(slog.String("component", "log_file_sender")),
	}
}

var _ Sender = (*LogFileSender)(nil)

// Send implements Sender.
func (s *LogFileSender) Send(ctx context.Context, to Recipient, msg Message) error {
	if err := ctx.Err(); err != nil {
		return sendFailed("log file", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return sendFailed("log file", err)
	}

	_, werr := fmt.Fprintf(f, "notification for %s: %s\n", to.Address, msg.OneLine())
	cerr := f.Close()
	if werr != nil {
		return sendFailed("log file", werr)
	}
	if cerr != nil {
		return sendFailed("log file", cerr)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("notification written",
		slog.String("user_id", to.UserID.String()),
		slog.String("path", s.path))
	return nil
}
