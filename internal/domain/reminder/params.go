package reminder

import (
	"errors"
	"time"
)

// DefaultResetWindow is how long a notified task stays quiet before it can be
// reminded about again.
const DefaultResetWindow = time.Minute

// ErrInvalidResetWindow is returned when the reset window is not positive.
var ErrInvalidResetWindow = errors.New("reset window must be positive")

// Params defines the configurable parameters of the reminder policy
type Params struct {
	// ResetWindow is the minimum time since the last notification after which
	// a still-pending, overdue task becomes eligible to be notified again.
	ResetWindow time.Duration
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() Params {
	return Params{
		ResetWindow: DefaultResetWindow,
	}
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.ResetWindow <= 0 {
		return ErrInvalidResetWindow
	}
	return nil
}
