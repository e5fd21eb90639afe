package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storybook-server/internal/ai"
	"storybook-server/internal/models"
)

// Максимальное число одновременных запросов на генерацию изображений.
const maxConcurrentImageCalls = 4

const searchResultLimit = 20

// BookService runs the story assembly pipeline and the supporting read
// operations. All external clients are injected so tests can substitute
// fakes.
type BookService struct {
	storyGen StoryGenerator
	imageGen ImageGenerator
	uploader ImageUploader
	users    UserRepository
	books    BookRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookService создает новый экземпляр BookService.
func NewBookService(
	storyGen StoryGenerator,
	imageGen ImageGenerator,
	uploader ImageUploader,
	users UserRepository,
	books BookRepository,
	logger *zap.Logger,
) *BookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookService{
		storyGen: storyGen,
		imageGen: imageGen,
		uploader: uploader,
		users:    users,
		books:    books,
		logger:   logger.Named("BookService"),
		now:      time.Now,
	}
}

// CreateBookInput is the caller-supplied request for a new book.
type CreateBookInput struct {
	Prompt   string `json:"prompt"`
	NumPages int    `json:"numPages"`
	// Title, when non-empty, overrides the generated title.
	Title string `json:"title,omitempty"`
}

// CreateBook runs the full pipeline: validation, story generation with
// local fallback, cover and chapter image generation, and atomic
// persistence of the book with all its chapters.
func (s *BookService) CreateBook(ctx context.Context, userID uuid.UUID, input CreateBookInput) (*models.CreatedBook, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("lookup current user: %w", err)
	}

	// Валидация до любых внешних вызовов.
	if len(strings.TrimSpace(input.Prompt)) < 10 {
		return nil, models.ErrInvalidPrompt
	}
	if input.NumPages < 1 || input.NumPages > 10 {
		return nil, models.ErrInvalidPageCount
	}

	log := s.logger.With(zap.String("user_id", userID.String()), zap.Int("num_pages", input.NumPages))

	story := s.buildStory(ctx, input.Prompt, input.NumPages, log)

	title := story.BookTitle
	if strings.TrimSpace(input.Title) != "" {
		title = input.Title
	}
	slug := MakeSlug(title, s.now())

	// Cover first. A cover failure aborts the whole creation, unlike
	// chapter image failures below.
	log.Debug("Generating book cover image")
	coverURL, err := s.generateAndStoreImage(ctx, story.BookCoverDescription)
	if err != nil {
		coverImageFailuresTotal.Inc()
		log.Error("Cover image generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrCoverImageFailed, err)
	}

	// Chapter images in parallel. A failure in one chapter never fails the
	// others or the book: that chapter keeps an empty image marker.
	log.Debug("Generating chapter images", zap.Int("chapters", len(story.Chapters)))
	imageURLs := make([]string, len(story.Chapters))
	g := errgroup.Group{}
	g.SetLimit(maxConcurrentImageCalls)
	for i := range story.Chapters {
		i := i
		g.Go(func() error {
			url, imgErr := s.generateAndStoreImage(ctx, story.Chapters[i].ImageDescription)
			if imgErr != nil {
				chapterImageFailuresTotal.Inc()
				log.Warn("Using empty image for chapter",
					zap.String("subtitle", story.Chapters[i].SubTitle),
					zap.Error(imgErr))
				return nil
			}
			imageURLs[i] = url
			return nil
		})
	}
	_ = g.Wait()

	book := &models.Book{
		Title:            title,
		Slug:             slug,
		CoverDescription: story.BookCoverDescription,
		CoverImageURL:    coverURL,
		NumPages:         input.NumPages,
		Status:           models.BookStatusCompleted,
		UserID:           userID,
	}
	chapters := make([]models.Chapter, len(story.Chapters))
	for i, ch := range story.Chapters {
		chapters[i] = models.Chapter{
			SubTitle:         ch.SubTitle,
			TextContent:      ch.TextContent,
			ImageDescription: ch.ImageDescription,
			ImageURL:         imageURLs[i],
			Page:             ch.Page,
		}
	}

	if err := s.books.CreateBookWithChapters(ctx, book, chapters); err != nil {
		log.Error("Failed to persist book", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceFailed, err)
	}

	booksCreatedTotal.Inc()
	log.Info("Book created",
		zap.String("book_id", book.ID.String()),
		zap.String("slug", slug),
		zap.String("title", title))

	return &models.CreatedBook{
		ID:     book.ID,
		Title:  title,
		Slug:   slug,
		Author: user.DisplayName(),
	}, nil
}

// buildStory makes one text generation attempt and falls back to a
// deterministic local story on any failure: transport error, unparseable
// response, invalid shape, or a chapter count that does not match the
// request.
func (s *BookService) buildStory(ctx context.Context, prompt string, pages int, log *zap.Logger) *models.StoryBook {
	raw, err := s.storyGen.GenerateStory(ctx, prompt, pages)
	if err != nil {
		storyFallbacksTotal.Inc()
		log.Warn("Story generation failed, using fallback story", zap.Error(err))
		return fallbackStory(prompt, pages)
	}

	story, err := ai.ParseStoryResponse(raw)
	if err != nil {
		storyFallbacksTotal.Inc()
		log.Warn("Story response unusable, using fallback story", zap.Error(err))
		return fallbackStory(prompt, pages)
	}
	if len(story.Chapters) != pages {
		storyFallbacksTotal.Inc()
		log.Warn("Story chapter count mismatch, using fallback story",
			zap.Int("got", len(story.Chapters)), zap.Int("want", pages))
		return fallbackStory(prompt, pages)
	}

	normalizeStory(story)
	return story
}

// generateAndStoreImage produces one image URL for a description: the
// image API renders it, then the bytes are re-hosted in object storage.
// If re-hosting fails the API's own URL is returned as-is rather than
// failing the call.
func (s *BookService) generateAndStoreImage(ctx context.Context, description string) (string, error) {
	sourceURL, err := s.imageGen.GenerateImage(ctx, description)
	if err != nil {
		return "", err
	}

	data, err := s.imageGen.FetchImage(ctx, sourceURL)
	if err != nil {
		s.logger.Warn("Failed to fetch generated image, keeping source URL", zap.Error(err))
		return sourceURL, nil
	}

	storedURL, err := s.uploader.Upload(ctx, data, "image/webp")
	if err != nil {
		s.logger.Warn("Failed to re-host image, keeping source URL", zap.Error(err))
		return sourceURL, nil
	}
	return storedURL, nil
}

// ListUserBooks returns all books owned by the user, newest first, each
// annotated with its chapter count.
func (s *BookService) ListUserBooks(ctx context.Context, userID uuid.UUID) ([]models.BookSummary, error) {
	books, err := s.books.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBookByID returns a book with its chapters. The book must belong to
// the requesting user.
func (s *BookService) GetBookByID(ctx context.Context, userID, bookID uuid.UUID) (*models.BookDetail, error) {
	book, err := s.books.GetByID(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookBySlug returns a book with its chapters and the author's public
// display name. No ownership check: reading by slug is public.
func (s *BookService) GetBookBySlug(ctx context.Context, slug string) (*models.BookDetail, error) {
	book, err := s.books.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book and, via cascade, all its chapters. The book
// must belong to the requesting user.
func (s *BookService) DeleteBook(ctx context.Context, userID, bookID uuid.UUID) error {
	return s.books.DeleteByOwner(ctx, userID, bookID)
}

// SearchBooks finds completed books whose title contains the query,
// case-insensitively, newest first, capped at 20 results. Queries shorter
// than 2 characters return an empty result with an explanatory message
// and never touch the repository.
func (s *BookService) SearchBooks(ctx context.Context, query string) ([]models.BookSummary, string, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []models.BookSummary{}, "Please enter at least 2 characters to search", nil
	}

	books, err := s.books.SearchCompleted(ctx, query, searchResultLimit)
	if err != nil {
		return nil, "", fmt.Errorf("search books: %w", err)
	}
	return books, "", nil
}
