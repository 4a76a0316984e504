package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.Generate(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_Validate_Rejections(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	signWith := func(expiresAt time.Time, key []byte) string {
		claims := &Claims{
			UserID: userID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiresAt),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed token",
			token: "not-a-jwt",
		},
		{
			name: "tampered signature",
			token: func() string {
				token, err := service.Generate(userID)
				require.NoError(t, err)
				return token[:len(token)-2] + "xx"
			}(),
		},
		{
			name:  "wrong secret",
			token: signWith(time.Now().Add(time.Hour), []byte("other-secret")),
		},
		{
			name:  "unexpected signing method",
			token: mustSignNone(t, userID),
		},
		{
			name:  "expired",
			token: signWith(time.Now().Add(-time.Second), []byte("test-secret")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

// Tokens are accepted right up to the expiry instant and rejected after it.
func TestJWTService_Validate_ExpiryBoundary(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	sign := func(expiresAt time.Time) string {
		claims := &Claims{
			UserID: userID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}

	stillValid := sign(time.Now().Add(time.Second))
	claims, err := service.Validate(stillValid)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)

	justExpired := sign(time.Now().Add(-time.Second))
	_, err = service.Validate(justExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func mustSignNone(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	return token
}
