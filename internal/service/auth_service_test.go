package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-server/internal/auth"
	"storybook-server/internal/models"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	tokens, err := auth.NewTokenService("unit-test-secret", time.Hour, nil)
	require.NoError(t, err)
	return NewAuthService(users, tokens, nil), users
}

func TestLoginOrRegisterCreatesNewUser(t *testing.T) {
	svc, users := newAuthFixture(t)

	user, token, err := svc.LoginOrRegister(context.Background(), "New@Example.com", "secret123", "")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)

	// Email нормализуется, имя по умолчанию берется из local-part.
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "new", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must be stored hashed")
	assert.Len(t, users.users, 1)
}

func TestLoginOrRegisterExistingUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	first, _, err := svc.LoginOrRegister(context.Background(), "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	// Повторный вход с тем же паролем.
	second, token, err := svc.LoginOrRegister(context.Background(), "reader@example.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "login must not create a second account")
	assert.NotEmpty(t, token)
}

func TestLoginOrRegisterWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.LoginOrRegister(context.Background(), "reader@example.com", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.LoginOrRegister(context.Background(), "reader@example.com", "wrong-password", "")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestCheckResolvesUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, token, err := svc.LoginOrRegister(context.Background(), "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	resolved, err := svc.Check(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestCheckRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Check(context.Background(), "not-a-token")
	require.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestCheckRejectsTokenOfDeletedUser(t *testing.T) {
	svc, users := newAuthFixture(t)

	user, token, err := svc.LoginOrRegister(context.Background(), "reader@example.com", "secret123", "")
	require.NoError(t, err)

	delete(users.users, user.ID)

	_, err = svc.Check(context.Background(), token)
	require.ErrorIs(t, err, models.ErrNotAuthenticated)
}
