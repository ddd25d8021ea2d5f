package mocks

import (
	"context"
	"sync"

	"github.com/todoapi/server/internal/platform/notifier"
)

// SentMessage records one call to FakeSender.Send.
type SentMessage struct {
	To  notifier.Recipient
	Msg notifier.Message
}

// FakeSender implements notifier.Sender and records every message it is given.
type FakeSender struct {
	mu   sync.Mutex
	sent []SentMessage

	// SendFn, when set, decides the outcome of each send. A message is
	// recorded only when the send succeeds.
	SendFn func(ctx context.Context, to notifier.Recipient, msg notifier.Message) error
}

var _ notifier.Sender = (*FakeSender)(nil)

// Send implements notifier.Sender.
func (s *FakeSender) Send(ctx context.Context, to notifier.Recipient, msg notifier.Message) error {
	if s.SendFn != nil {
		if err := s.SendFn(ctx, to, msg); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentMessage{To: to, Msg: msg})
	return nil
}

// Sent returns a copy of the recorded messages.
func (s *FakeSender) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.sent...)
}

// SentTo returns the recorded messages addressed to address.
func (s *FakeSender) SentTo(address string) []SentMessage {
	var out []SentMessage
	for _, m := range s.Sent() {
		if m.To.Address == address {
			out = append(out, m)
		}
	}
	return out
}
