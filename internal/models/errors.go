package models

import "errors"

// Ошибки уровня сервисов. Хендлеры переводят их в tagged-результаты,
// наружу необработанные ошибки не уходят.
var (
	// Auth errors
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// Token errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Pipeline errors
	ErrInvalidPrompt         = errors.New("prompt must be at least 10 characters")
	ErrInvalidPageCount      = errors.New("number of pages must be between 1 and 10")
	ErrStoryGenerationFailed = errors.New("failed to generate story")
	ErrCoverImageFailed      = errors.New("failed to generate cover image")
	ErrPersistenceFailed     = errors.New("failed to save book to database")

	// Read-side errors
	ErrBookNotFound = errors.New("book not found or you don't have permission to access it")

	// Generic
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
)
