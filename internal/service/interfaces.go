package service

import (
	"context"

	"github.com/google/uuid"

	"storybook-server/internal/models"
)

// StoryGenerator produces story text: given a subject and a chapter count
// it returns the raw response text of a structured story.
type StoryGenerator interface {
	GenerateStory(ctx context.Context, subjectPrompt string, chapterCount int) (string, error)
}

// ImageGenerator renders images for text descriptions.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, descriptionText string) (string, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// ImageUploader re-hosts raw image bytes and returns a stable public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// BookRepository persists books and their chapters.
type BookRepository interface {
	// CreateBookWithChapters writes the book and all chapters as a single
	// all-or-nothing unit. On error no rows exist.
	CreateBookWithChapters(ctx context.Context, book *models.Book, chapters []models.Chapter) error
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.BookSummary, error)
	GetByID(ctx context.Context, userID, bookID uuid.UUID) (*models.BookDetail, error)
	GetBySlug(ctx context.Context, slug string) (*models.BookDetail, error)
	DeleteByOwner(ctx context.Context, userID, bookID uuid.UUID) error
	SearchCompleted(ctx context.Context, query string, limit int) ([]models.BookSummary, error)
}
