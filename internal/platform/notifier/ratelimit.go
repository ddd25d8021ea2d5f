package notifier

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// RateLimitedSender caps the send rate of the wrapped Sender. Waiting for a
// token honors ctx cancellation.
type RateLimitedSender struct {
	next    Sender
	limiter *rate.Limiter
}

// NewRateLimitedSender wraps next with a token bucket of perSecond tokens.
// The burst equals the per-second rate, rounded up, with a minimum of one.
func NewRateLimitedSender(next Sender, perSecond float64) *RateLimitedSender {
	burst := int(math.Ceil(perSecond))
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

var _ Sender = (*RateLimitedSender)(nil)

// Send implements Sender.
func (s *RateLimitedSender) Send(ctx context.Context, to Recipient, msg Message) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return sendFailed("rate limit", err)
	}
	return s.next.Send(ctx, to, msg)
}
