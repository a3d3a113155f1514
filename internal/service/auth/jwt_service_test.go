package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestService(t *testing.T, secret string, lifetimeMinutes int, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: lifetimeMinutes,
	}, now)
	require.NoError(t, err)
	return svc
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, testSecret, 60, fixedClock(fixedTime))

	t.Run("generates_valid_token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.GenerateToken(context.Background(), "cli")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, "cli", claims.Subject)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("unique_token_ids", func(t *testing.T) {
		t.Parallel()

		a, err := svc.GenerateToken(context.Background(), "cli")
		require.NoError(t, err)
		b, err := svc.GenerateToken(context.Background(), "cli")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects_empty_subject", func(t *testing.T) {
		t.Parallel()

		_, err := svc.GenerateToken(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrEmptySubject)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid_token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestService(t, testSecret, 60, fixedClock(fixedTime))
				token, err := svc.GenerateToken(context.Background(), "api")
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "expired_token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				gen := newTestService(t, testSecret, 60, fixedClock(fixedTime))
				token, err := gen.GenerateToken(context.Background(), "api")
				require.NoError(t, err)
				return newTestService(t, testSecret, 60, fixedClock(fixedTime.Add(2*time.Hour))), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "within_clock_skew",
			setupFunc: func(t *testing.T) (JWTService, string) {
				gen := newTestService(t, testSecret, 60, fixedClock(fixedTime))
				token, err := gen.GenerateToken(context.Background(), "api")
				require.NoError(t, err)
				return newTestService(t, testSecret, 60, fixedClock(fixedTime.Add(61*time.Minute))), token
			},
		},
		{
			name: "not_yet_valid",
			setupFunc: func(t *testing.T) (JWTService, string) {
				gen := newTestService(t, testSecret, 60, fixedClock(fixedTime.Add(time.Hour)))
				token, err := gen.GenerateToken(context.Background(), "api")
				require.NoError(t, err)
				return newTestService(t, testSecret, 60, fixedClock(fixedTime)), token
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "wrong_signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				gen := newTestService(t, wrongSecret, 60, fixedClock(fixedTime))
				token, err := gen.GenerateToken(context.Background(), "api")
				require.NoError(t, err)
				return newTestService(t, testSecret, 60, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed_token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestService(t, testSecret, 60, fixedClock(fixedTime)), "not.a.jwt"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty_token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestService(t, testSecret, 60, fixedClock(fixedTime)), ""
			},
			wantErr: ErrMissingToken,
		},
		{
			name: "wrong_signing_method",
			setupFunc: func(t *testing.T) (JWTService, string) {
				claims := jwt.RegisteredClaims{
					Issuer:    tokenIssuer,
					Subject:   "api",
					IssuedAt:  jwt.NewNumericDate(fixedTime),
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
				require.NoError(t, err)
				return newTestService(t, testSecret, 60, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong_issuer",
			setupFunc: func(t *testing.T) (JWTService, string) {
				claims := jwt.RegisteredClaims{
					Issuer:    "someone-else",
					Subject:   "api",
					IssuedAt:  jwt.NewNumericDate(fixedTime),
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
				require.NoError(t, err)
				return newTestService(t, testSecret, 60, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "api", claims.Subject)
		})
	}
}
