package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/microservices/http-api/models"
)

const secret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	return &models.User{ID: "8b7f3c1e-0000-4000-8000-000000000001", Username: "reader", Role: models.RoleModerator}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(secret, time.Hour)

	token, expiresAt, err := tm.Generate(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "8b7f3c1e-0000-4000-8000-000000000001", claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, models.RoleModerator, claims.Role)
	assert.Equal(t, "yamdb", claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := &jwtManager{secret: []byte(secret), ttl: time.Minute, now: time.Now}
	token, _, err := tm.Generate(testUser())
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager(secret, time.Hour).Generate(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-another-secret-123", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Malformed(t *testing.T) {
	_, err := NewTokenManager(secret, time.Hour).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "yamdb",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenManager(secret, time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenManager(secret, time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
