// Package api holds the HTTP handlers of the to-do service: registration
// and login, task CRUD scoped to the authenticated user, and the reminder
// settings. Handlers decode and validate requests, call the services and
// translate their errors into status codes and safe messages.
package api
