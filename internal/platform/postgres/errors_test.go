package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/todoapi/server/internal/store"
)

type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "nil_error", err: nil, expected: nil},
		{name: "sql_no_rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"},
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "check_constraint_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "not_null_violation",
			err:      fmt.Errorf("insert: %w", &pgconn.PgError{Code: notNullViolationCode}),
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expected)
		})
	}

	t.Run("unmapped_error_passes_through", func(t *testing.T) {
		orig := errors.New("connection refused")
		assert.Equal(t, orig, MapError(orig))
	})
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrTaskNotFound))
	assert.Equal(t, store.ErrTaskNotFound, CheckRowsAffected(mockResult{}, store.ErrTaskNotFound))
	assert.Error(t, CheckRowsAffected(mockResult{err: errors.New("driver")}, store.ErrTaskNotFound))
	assert.Error(t, CheckRowsAffected(nil, store.ErrTaskNotFound))
}
