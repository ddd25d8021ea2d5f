//go:build integration

// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests obtain a connection with GetTestDBWithT, which skips the test when
// DATABASE_URL is not set and applies the embedded migrations once. Most tests
// then run inside WithTx so their writes are rolled back. Tests that need
// committed data visible to several connections call TruncateAll instead.
//
// Environment variables:
//
//   - DATABASE_URL: primary connection string
//   - TODO_TEST_DB_URL: alternative connection string
package testdb
