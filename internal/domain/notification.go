package domain

import (
	"fmt"
	"strings"
)

// NotificationPreference controls whether a user receives task reminders.
type NotificationPreference string

// Possible notification preference values
const (
	NotificationsEnabled  NotificationPreference = "enabled"
	NotificationsDisabled NotificationPreference = "disabled"
)

// ParseNotificationPreference converts a raw value into a NotificationPreference.
// Matching is case-insensitive and ignores surrounding whitespace; anything other
// than "enabled" or "disabled" is rejected.
func ParseNotificationPreference(raw string) (NotificationPreference, error) {
	p := NotificationPreference(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidNotificationPreference, raw)
	}
	return p, nil
}

// IsValid reports whether p is one of the known preference values.
func (p NotificationPreference) IsValid() bool {
	switch p {
	case NotificationsEnabled, NotificationsDisabled:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (p NotificationPreference) String() string {
	return string(p)
}
