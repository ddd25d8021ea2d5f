// Package service contains the application use cases. It orchestrates
// domain objects and the persistence interfaces defined in internal/store.
//
// Key components:
//
//   - NotificationService: the reminder dispatcher, the reset scanner and
//     the notification preference operations.
//   - NotificationRunner: binds NotificationService to a per-run store
//     session so scheduled jobs never share a connection.
//   - TaskService: user-scoped task CRUD.
//   - UserService: registration and credential checks.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete infrastructure implementation.
package service
