package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.Generate("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestJWTService_ExpirySetTo24Hours(t *testing.T) {
	service := NewJWTService("test-secret")

	before := time.Now()
	token, err := service.Generate("user-1")
	assert.NoError(t, err)

	claims, err := service.Validate(token)
	assert.NoError(t, err)

	expiry := claims.ExpiresAt.Time
	assert.WithinDuration(t, before.Add(TokenExpiry), expiry, 5*time.Second)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Generate("user-1")
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.Generate("user-1")
	assert.NoError(t, err)

	_, err = service.Validate(token + "x")
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = NewJWTService("test-secret").Validate(token)
	assert.Error(t, err)
}
