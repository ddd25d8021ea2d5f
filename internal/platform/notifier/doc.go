// Package notifier delivers task reminders to users.
//
// A Sender performs exactly one delivery attempt per call and reports
// failure through an error wrapping ErrSendFailed. Retrying is left to the
// caller: an unsent reminder keeps its tasks unnotified, so the next
// scheduled scan tries again.
package notifier
