package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflow/wordflow-api/internal/config"
)

const testSecret = "test-secret-key-thats-32-chars-long!!"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	service, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return service.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short"})
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)
	userID := uuid.New()

	token, err := service.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)
	userID := uuid.New()

	// Issue the token in the past, beyond the lifetime plus clock skew.
	issuedAt := time.Now().Add(-3 * time.Hour)
	service.timeFunc = func() time.Time { return issuedAt }
	token, err := service.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	service.timeFunc = time.Now
	_, err = service.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenTampered(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)

	token, err := service.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = service.ValidateToken(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	issuer := newTestJWTService(t)
	verifier, err := NewJWTService(config.AuthConfig{
		JWTSecret:            strings.Repeat("another-key!", 3),
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMissing(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)

	_, err := service.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)
	userID := uuid.New()

	token, err := service.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)
	userID := uuid.New()

	accessToken, err := service.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	_, err = service.ValidateRefreshToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = service.ValidateToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateRefreshTokenExpired(t *testing.T) {
	t.Parallel()

	service := newTestJWTService(t)
	service.refreshTokenLifetime = time.Minute

	issuedAt := time.Now().Add(-time.Hour)
	service.timeFunc = func() time.Time { return issuedAt }
	token, err := service.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	service.timeFunc = time.Now
	_, err = service.ValidateRefreshToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestBcryptHashAndCompare(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4) // Minimum cost keeps the test fast
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, verifier.Compare(hashed, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hashed, "wrong password"))
}
