package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storybook-server/internal/config"
	"storybook-server/internal/models"
	"storybook-server/internal/service"
)

// BookOperations is the pipeline surface the handler depends on.
type BookOperations interface {
	CreateBook(ctx context.Context, userID uuid.UUID, input service.CreateBookInput) (*models.CreatedBook, error)
	ListUserBooks(ctx context.Context, userID uuid.UUID) ([]models.BookSummary, error)
	GetBookByID(ctx context.Context, userID, bookID uuid.UUID) (*models.BookDetail, error)
	GetBookBySlug(ctx context.Context, slug string) (*models.BookDetail, error)
	DeleteBook(ctx context.Context, userID, bookID uuid.UUID) error
	SearchBooks(ctx context.Context, query string) ([]models.BookSummary, string, error)
}

// AuthOperations is the auth surface the handler depends on.
type AuthOperations interface {
	LoginOrRegister(ctx context.Context, email, password, name string) (*models.User, string, error)
	Check(ctx context.Context, tokenString string) (*models.User, error)
}

// Handler wires the HTTP surface to the services.
type Handler struct {
	authService AuthOperations
	bookService BookOperations
	cfg         *config.Config
	logger      *zap.Logger
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(authService AuthOperations, bookService BookOperations, cfg *config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		authService: authService,
		bookService: bookService,
		cfg:         cfg,
		logger:      logger.Named("Handler"),
	}
}

// RegisterRoutes mounts all application routes on the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.loginOrRegister)
		authGroup.POST("/logout", h.logout)
		authGroup.GET("/check", h.authCheck)
	}

	protected := router.Group("/api")
	protected.Use(h.AuthMiddleware())
	{
		protected.POST("/books", h.createBook)
		protected.GET("/books", h.listBooks)
		protected.GET("/books/:id", h.getBookByID)
		protected.DELETE("/books/:id", h.deleteBook)
	}

	// Публичные маршруты читателя.
	router.GET("/books/:slug", h.getBookBySlug)
	router.GET("/search", h.searchBooks)
}
