package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/traffic-tasker/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, subject string) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Defaults used when the Fn fields are nil
	Token           string
	TokenError      error
	Claims          *auth.Claims
	ValidationError error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTService returns a mock that issues "mock-jwt-token" and accepts
// any token as subject "test-subject".
func NewMockJWTService() *MockJWTService {
	now := time.Now()
	return &MockJWTService{
		Token: "mock-jwt-token",
		Claims: &auth.Claims{
			Subject:   "test-subject",
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
			ID:        "mock-token-id",
		},
	}
}

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, subject string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, subject)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}
