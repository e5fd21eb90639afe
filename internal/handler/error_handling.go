package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/models"
)

// handleServiceError translates a service error into a tagged result. The
// boundary never leaks raw internals: unknown errors collapse into a
// generic message with a 500.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		statusCode = http.StatusUnauthorized
		message = "Not authenticated"
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid email or password"
	case errors.Is(err, models.ErrInvalidPrompt):
		statusCode = http.StatusBadRequest
		message = "Prompt must be at least 10 characters"
	case errors.Is(err, models.ErrInvalidPageCount):
		statusCode = http.StatusBadRequest
		message = "Number of pages must be between 1 and 10"
	case errors.Is(err, models.ErrStoryGenerationFailed):
		statusCode = http.StatusBadGateway
		message = "Failed to generate story"
	case errors.Is(err, models.ErrCoverImageFailed):
		statusCode = http.StatusBadGateway
		message = "Failed to generate cover image"
	case errors.Is(err, models.ErrPersistenceFailed):
		statusCode = http.StatusInternalServerError
		message = "Failed to save book to database"
	case errors.Is(err, models.ErrBookNotFound):
		statusCode = http.StatusNotFound
		message = "Book not found or you don't have permission to access it"
	case errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		message = err.Error()
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal error occurred"
	}

	c.AbortWithStatusJSON(statusCode, gin.H{"success": false, "error": message})
}
