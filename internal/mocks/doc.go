// Package mocks provides shared test doubles.
//
// MemoryStore implements the user, task and notification stores in memory
// with the same semantics as the PostgreSQL stores, and
// MemorySessionFactory hands out sessions over it. FakeSender records
// reminders instead of delivering them. MockJWTService and
// MockPasswordVerifier follow the function-field style:
//
//	jwt := &mocks.MockJWTService{
//	    GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
//	        return "mocked-token", nil
//	    },
//	}
package mocks
