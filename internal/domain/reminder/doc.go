// Package reminder implements the pure decision logic of the reminder policy:
// whether a task is due for a notification and whether a notified task has
// been quiet long enough to be re-armed. It performs no I/O; callers supply
// the task snapshot and a single "now" captured at the start of a scan.
package reminder
