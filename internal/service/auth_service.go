package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storybook-server/internal/auth"
	"storybook-server/internal/models"
)

// TokenIssuer issues and verifies signed identity tokens.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthService implements the combined login-or-register flow: an unknown
// email creates an account, a known one must present the right password.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger.Named("AuthService"),
	}
}

// LoginOrRegister authenticates an existing user or registers a new one
// when the email is unknown. On success it returns the user and a signed
// token for the session cookie.
func (s *AuthService) LoginOrRegister(ctx context.Context, email, password, name string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		// Login flow.
		if !auth.CheckPasswordHash(password, user.PasswordHash) {
			s.logger.Warn("Invalid password", zap.String("email", email))
			return nil, "", models.ErrInvalidCredentials
		}
	case errors.Is(err, models.ErrUserNotFound):
		// Register flow.
		user, err = s.register(ctx, email, password, name)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("lookup user by email: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

func (s *AuthService) register(ctx context.Context, email, password, name string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrEmailAlreadyExists) {
			// Гонка: пользователь появился между проверкой и вставкой.
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()), zap.String("email", email))
	return user, nil
}

// Check verifies a token and resolves it to the current user record. Any
// failure, including a valid token for a deleted user, reports the caller
// as unauthenticated.
func (s *AuthService) Check(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("lookup user by id: %w", err)
	}
	return user, nil
}
