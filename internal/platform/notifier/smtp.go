package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/todoapi/server/internal/config"
	"github.com/todoapi/server/internal/platform/logger"
)

// DeliverFunc hands a composed RFC 5322 message to a mail server.
type DeliverFunc func(ctx context.Context, addr string, auth sasl.Client, from string, to []string, msg []byte) error

// SMTPSender emails reminders.
type SMTPSender struct {
	cfg     config.SMTPConfig
	deliver DeliverFunc
	now     func() time.Time
	logger  *slog.Logger
}

// SMTPOption customizes an SMTPSender.
type SMTPOption func(*SMTPSender)

// WithDeliverFunc replaces the network delivery step.
func WithDeliverFunc(fn DeliverFunc) SMTPOption {
	return func(s *SMTPSender) { s.deliver = fn }
}

// NewSMTPSender creates an SMTPSender from cfg. PLAIN auth is used when a
// username is configured.
func NewSMTPSender(cfg config.SMTPConfig, logger *slog.Logger, opts ...SMTPOption) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SMTPSender{
		cfg:     cfg,
		deliver: deliverSMTP,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "smtp_sender")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Sender = (*SMTPSender)(nil)

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, to Recipient, msg Message) error {
	raw, err := s.compose(to, msg)
	if err != nil {
		return sendFailed("smtp compose", err)
	}

	var auth sasl.Client
	if s.cfg.Username != "" {
		auth = sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := s.deliver(ctx, addr, auth, s.cfg.From, []string{to.Address}, raw); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("smtp delivery failed",
			slog.String("user_id", to.UserID.String()),
			slog.String("error", err.Error()))
		return sendFailed("smtp", err)
	}
	return nil
}

func (s *SMTPSender) compose(to Recipient, msg Message) ([]byte, error) {
	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{{Address: s.cfg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: to.Address}})
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, msg.Body()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deliverSMTP speaks SMTP over a connection bounded by ctx's deadline,
// upgrading with STARTTLS when the server offers it.
func deliverSMTP(ctx context.Context, addr string, auth sasl.Client, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c := smtp.NewClient(conn)
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := c.SendMail(from, to, bytes.NewReader(msg)); err != nil {
		return err
	}
	return c.Quit()
}
