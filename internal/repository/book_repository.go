package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"storybook-server/internal/models"
)

type pgBookRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgBookRepository creates a new PostgreSQL-backed book repository.
func NewPgBookRepository(db DBTX, logger *zap.Logger) *pgBookRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pgBookRepository{
		db:     db,
		logger: logger.Named("PgBookRepo"),
	}
}

// CreateBookWithChapters inserts the book and all its chapters in one
// transaction. On any error the transaction is rolled back and no rows
// remain.
func (r *pgBookRepository) CreateBookWithChapters(ctx context.Context, book *models.Book, chapters []models.Chapter) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		bookQuery := `INSERT INTO books (title, slug, cover_description, cover_image_url, num_pages, status, user_id)
		              VALUES ($1, $2, $3, $4, $5, $6, $7)
		              RETURNING id, created_at`
		err := tx.QueryRow(ctx, bookQuery,
			book.Title, book.Slug, book.CoverDescription, book.CoverImageURL,
			book.NumPages, book.Status, book.UserID,
		).Scan(&book.ID, &book.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}

		chapterQuery := `INSERT INTO chapters (book_id, subtitle, text_content, image_description, image_url, page)
		                 VALUES ($1, $2, $3, $4, $5, $6)
		                 RETURNING id`
		for i := range chapters {
			chapters[i].BookID = book.ID
			err := tx.QueryRow(ctx, chapterQuery,
				book.ID, chapters[i].SubTitle, chapters[i].TextContent,
				chapters[i].ImageDescription, chapters[i].ImageURL, chapters[i].Page,
			).Scan(&chapters[i].ID)
			if err != nil {
				return fmt.Errorf("insert chapter %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create book with chapters", zap.Error(err), zap.String("slug", book.Slug))
		return err
	}

	r.logger.Info("Book persisted",
		zap.String("bookID", book.ID.String()),
		zap.String("slug", book.Slug),
		zap.Int("chapters", len(chapters)))
	return nil
}

// ListByOwner returns all books of one user, newest first, with chapter
// counts.
func (r *pgBookRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.BookSummary, error) {
	query := `SELECT b.id, b.title, b.slug, b.cover_image_url, b.status, b.created_at,
	                 COUNT(c.id) AS chapters_count
	          FROM books b
	          LEFT JOIN chapters c ON c.book_id = b.id
	          WHERE b.user_id = $1
	          GROUP BY b.id
	          ORDER BY b.created_at DESC`

	books := make([]models.BookSummary, 0)
	if err := pgxscan.Select(ctx, r.db, &books, query, userID); err != nil {
		r.logger.Error("Failed to list books by owner", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetByID returns one book with its chapters. The book must belong to the
// given user; otherwise models.ErrBookNotFound.
func (r *pgBookRepository) GetByID(ctx context.Context, userID, bookID uuid.UUID) (*models.BookDetail, error) {
	query := `SELECT id, title, slug, cover_description, cover_image_url, num_pages, status, user_id, created_at
	          FROM books WHERE id = $1 AND user_id = $2`

	detail := &models.BookDetail{}
	err := r.db.QueryRow(ctx, query, bookID, userID).Scan(
		&detail.ID, &detail.Title, &detail.Slug, &detail.CoverDescription,
		&detail.CoverImageURL, &detail.NumPages, &detail.Status, &detail.UserID, &detail.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookNotFound
		}
		r.logger.Error("Failed to get book by id", zap.Error(err), zap.String("bookID", bookID.String()))
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	chapters, err := r.chaptersForBook(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Chapters = chapters
	return detail, nil
}

// GetBySlug returns one book with its chapters and the author's public
// name. No ownership filter: slugs are the public address of a book.
func (r *pgBookRepository) GetBySlug(ctx context.Context, slug string) (*models.BookDetail, error) {
	query := `SELECT b.id, b.title, b.slug, b.cover_description, b.cover_image_url, b.num_pages, b.status,
	                 b.user_id, b.created_at, u.name, u.email
	          FROM books b
	          JOIN users u ON u.id = b.user_id
	          WHERE b.slug = $1`

	detail := &models.BookDetail{}
	author := models.User{}
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&detail.ID, &detail.Title, &detail.Slug, &detail.CoverDescription,
		&detail.CoverImageURL, &detail.NumPages, &detail.Status,
		&detail.UserID, &detail.CreatedAt, &author.Name, &author.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookNotFound
		}
		r.logger.Error("Failed to get book by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("failed to get book by slug: %w", err)
	}

	chapters, err := r.chaptersForBook(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Chapters = chapters
	detail.Author = author.DisplayName()
	detail.AuthorID = detail.UserID
	return detail, nil
}

func (r *pgBookRepository) chaptersForBook(ctx context.Context, bookID uuid.UUID) ([]models.Chapter, error) {
	// page is string-typed in transport, numeric by construction, so the
	// cast keeps page 10 after page 9.
	query := `SELECT id, book_id, subtitle, text_content, image_description, image_url, page
	          FROM chapters WHERE book_id = $1 ORDER BY page::int ASC`

	chapters := make([]models.Chapter, 0)
	if err := pgxscan.Select(ctx, r.db, &chapters, query, bookID); err != nil {
		r.logger.Error("Failed to load chapters", zap.Error(err), zap.String("bookID", bookID.String()))
		return nil, fmt.Errorf("failed to load chapters: %w", err)
	}
	return chapters, nil
}

// DeleteByOwner removes a book owned by the user. Chapters go with it via
// ON DELETE CASCADE. A miss (wrong id or wrong owner) is
// models.ErrBookNotFound.
func (r *pgBookRepository) DeleteByOwner(ctx context.Context, userID, bookID uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, bookID, userID)
	if err != nil {
		r.logger.Error("Failed to delete book", zap.Error(err), zap.String("bookID", bookID.String()))
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrBookNotFound
	}
	r.logger.Info("Book deleted", zap.String("bookID", bookID.String()), zap.String("userID", userID.String()))
	return nil
}

// SearchCompleted finds completed books whose title contains the query,
// case-insensitively, newest first.
func (r *pgBookRepository) SearchCompleted(ctx context.Context, query string, limit int) ([]models.BookSummary, error) {
	sqlQuery := `SELECT b.id, b.title, b.slug, b.cover_image_url, b.status, b.created_at,
	                    (SELECT COUNT(*) FROM chapters c WHERE c.book_id = b.id) AS chapters_count,
	                    COALESCE(NULLIF(u.name, ''), NULLIF(split_part(u.email, '@', 1), ''), 'Anonymous') AS author
	             FROM books b
	             JOIN users u ON u.id = b.user_id
	             WHERE b.status = 'completed' AND b.title ILIKE '%' || $1 || '%'
	             ORDER BY b.created_at DESC
	             LIMIT $2`

	books := make([]models.BookSummary, 0)
	if err := pgxscan.Select(ctx, r.db, &books, sqlQuery, query, limit); err != nil {
		r.logger.Error("Failed to search books", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return books, nil
}
