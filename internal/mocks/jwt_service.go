package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/todoapi/server/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
	Lifetime    time.Duration
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// TokenLifetime implements the auth.JWTService interface
func (m *MockJWTService) TokenLifetime() time.Duration {
	if m.Lifetime == 0 {
		return time.Hour
	}
	return m.Lifetime
}

// NewTokenPerUser returns a mock that issues "token-<user id>" and accepts
// exactly those tokens back.
func NewTokenPerUser() *MockJWTService {
	m := &MockJWTService{}
	m.GenerateTokenFn = func(_ context.Context, userID uuid.UUID) (string, error) {
		return "token-" + userID.String(), nil
	}
	m.ValidateTokenFn = func(_ context.Context, token string) (*auth.Claims, error) {
		const prefix = "token-"
		if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
			return nil, auth.ErrInvalidToken
		}
		id, err := uuid.Parse(token[len(prefix):])
		if err != nil {
			return nil, auth.ErrInvalidToken
		}
		return &auth.Claims{UserID: id, Subject: id.String(), TokenType: "access"}, nil
	}
	return m
}
