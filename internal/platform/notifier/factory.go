package notifier

import (
	"fmt"
	"log/slog"

	"github.com/todoapi/server/internal/config"
)

// New builds the configured sink, wrapped with the send timeout and,
// when a rate is configured, the rate limiter.
func New(cfg config.NotificationConfig, logger *slog.Logger) (Sender, error) {
	var sink Sender
	switch cfg.Sink {
	case config.SinkLog:
		sink = NewLogFileSender(cfg.LogPath, logger)
	case config.SinkSMTP:
		sink = NewSMTPSender(cfg.SMTP, logger)
	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.Sink)
	}

	var s Sender = NewTimeoutSender(sink, cfg.SendTimeout)
	if cfg.RatePerSecond > 0 {
		s = NewRateLimitedSender(s, cfg.RatePerSecond)
	}
	return s, nil
}
