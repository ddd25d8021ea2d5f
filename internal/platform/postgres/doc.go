// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package: users, tasks and
// the reminder queries. It also embeds the goose schema migrations.
package postgres
