// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the reminder rules and task handling
// stay independent of the database in use.
package store
