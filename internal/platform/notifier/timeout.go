package notifier

import (
	"context"
	"time"
)

// TimeoutSender bounds each call to the wrapped Sender.
type TimeoutSender struct {
	next    Sender
	timeout time.Duration
}

// NewTimeoutSender wraps next so every Send runs under timeout.
func NewTimeoutSender(next Sender, timeout time.Duration) *TimeoutSender {
	return &TimeoutSender{next: next, timeout: timeout}
}

var _ Sender = (*TimeoutSender)(nil)

// Send implements Sender.
func (s *TimeoutSender) Send(ctx context.Context, to Recipient, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Send(ctx, to, msg)
}
