package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storybook-server/internal/models"
	"storybook-server/internal/service"
)

// createBook runs the story assembly pipeline for the authenticated user.
func (h *Handler) createBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		handleServiceError(c, models.ErrNotAuthenticated)
		return
	}

	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), userID, service.CreateBookInput{
		Prompt:   req.Prompt,
		NumPages: req.NumPages,
		Title:    req.Title,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "book": book})
}

// listBooks returns all books of the authenticated user, newest first.
func (h *Handler) listBooks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		handleServiceError(c, models.ErrNotAuthenticated)
		return
	}

	books, err := h.bookService.ListUserBooks(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "books": books})
}

// getBookByID returns one of the authenticated user's books with all its
// chapters.
func (h *Handler) getBookByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		handleServiceError(c, models.ErrNotAuthenticated)
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid book id"})
		return
	}

	book, err := h.bookService.GetBookByID(c.Request.Context(), userID, bookID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "book": book})
}

// deleteBook removes one of the authenticated user's books together with
// its chapters.
func (h *Handler) deleteBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		handleServiceError(c, models.ErrNotAuthenticated)
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid book id"})
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), userID, bookID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Book deleted successfully"})
}

// getBookBySlug is the public reader endpoint: no authentication, author
// name included.
func (h *Handler) getBookBySlug(c *gin.Context) {
	book, err := h.bookService.GetBookBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "book": book})
}

// searchBooks finds completed books by title. Queries shorter than 2
// characters come back empty with an explanatory message.
func (h *Handler) searchBooks(c *gin.Context) {
	searchRequestsTotal.Inc()

	books, message, err := h.bookService.SearchBooks(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := gin.H{"success": true, "books": books}
	if message != "" {
		resp["message"] = message
	}
	c.JSON(http.StatusOK, resp)
}
