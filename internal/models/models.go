package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Роли пользователей.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Статусы книги.
const (
	BookStatusGenerating = "generating"
	BookStatusCompleted  = "completed"
	BookStatusFailed     = "failed"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // Не отдаем хеш пароля
	Name         string    `db:"name" json:"name,omitempty"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName resolves the public author name: explicit name, then the
// local part of the email, then "Anonymous".
func (u *User) DisplayName() string {
	if u == nil {
		return "Anonymous"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return strings.SplitN(u.Email, "@", 2)[0]
	}
	return "Anonymous"
}

// Book is a persisted, fully generated storybook.
type Book struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Slug             string    `db:"slug" json:"slug"`
	CoverDescription string    `db:"cover_description" json:"coverDescription"`
	CoverImageURL    string    `db:"cover_image_url" json:"coverImage,omitempty"`
	NumPages         int       `db:"num_pages" json:"numPages"`
	Status           string    `db:"status" json:"status"`
	UserID           uuid.UUID `db:"user_id" json:"userId"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// Chapter is a single page of a book. Chapters are created only together
// with their book and are never mutated afterwards.
type Chapter struct {
	ID               uuid.UUID `db:"id" json:"id"`
	BookID           uuid.UUID `db:"book_id" json:"bookId"`
	SubTitle         string    `db:"subtitle" json:"subTitle"`
	TextContent      string    `db:"text_content" json:"textContent"`
	ImageDescription string    `db:"image_description" json:"imageDescription"`
	ImageURL         string    `db:"image_url" json:"imageUrl,omitempty"`
	// Page is the 1-based ordinal, string-typed in transport.
	Page string `db:"page" json:"page"`
}

// BookSummary is the listing/search projection of a book.
type BookSummary struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Slug          string    `db:"slug" json:"slug"`
	CoverImageURL string    `db:"cover_image_url" json:"coverImage,omitempty"`
	Status        string    `db:"status" json:"status"`
	ChaptersCount int       `db:"chapters_count" json:"chaptersCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	Author        string    `db:"author" json:"author,omitempty"`
}

// BookDetail is a book together with its ordered chapters.
type BookDetail struct {
	Book
	Chapters []Chapter `json:"chapters"`
	Author   string    `json:"author,omitempty"`
	AuthorID uuid.UUID `json:"authorId,omitempty"`
}

// StoryChapter is one chapter as produced by the text generation model,
// after normalization.
type StoryChapter struct {
	SubTitle         string `json:"subTitle"`
	TextContent      string `json:"textContent"`
	ImageDescription string `json:"imageDescription"`
	Page             string `json:"page"`
}

// StoryBook is the validated output of the text generation model (or of
// the local fallback when generation fails).
type StoryBook struct {
	BookTitle            string         `json:"bookTitle"`
	BookCoverDescription string         `json:"bookCoverDescription"`
	Chapters             []StoryChapter `json:"chapters"`
}

// CreatedBook is what CreateBook returns to the caller on success.
type CreatedBook struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Author string    `json:"author"`
}
