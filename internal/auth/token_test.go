package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-server/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "reader@example.com",
		Name:  "Reader",
		Role:  models.RoleUser,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour, nil)
	require.NoError(t, err)

	user := testUser()
	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-one", time.Hour, nil)
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-two", time.Hour, nil)
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestTokenExpired(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Nanosecond, nil)
	require.NoError(t, err)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestTokenMalformed(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour, nil)
	require.NoError(t, err)

	_, err = svc.Verify("definitely.not.a-jwt")
	require.ErrorIs(t, err, models.ErrTokenMalformed)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour, nil)
	require.Error(t, err)
}

func TestNewTokenServiceDefaultTTL(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, svc.TTL(), "default validity should be 7 days")
}
