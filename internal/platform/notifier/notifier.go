package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrSendFailed is wrapped by every delivery failure.
var ErrSendFailed = errors.New("notification send failed")

// Recipient identifies who a reminder is for and where it goes.
type Recipient struct {
	UserID  uuid.UUID
	Address string
}

// Message is a reminder listing one or more due tasks.
type Message struct {
	Subject string
	// Lines holds one entry per due task.
	Lines []string
}

// Body renders the message as plain text, one task per line.
func (m Message) Body() string {
	var b strings.Builder
	b.WriteString(m.Subject)
	b.WriteString("\n\n")
	for _, line := range m.Lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// OneLine renders the message on a single line.
func (m Message) OneLine() string {
	if len(m.Lines) == 0 {
		return m.Subject
	}
	return m.Subject + ": " + strings.Join(m.Lines, "; ")
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, to Recipient, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, to Recipient, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, to Recipient, msg Message) error {
	return f(ctx, to, msg)
}

func sendFailed(kind string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSendFailed, kind, err)
}
