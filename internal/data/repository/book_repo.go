package repository

import (
	"context"
	"fmt"

	"library-service/internal/data/entity"
	"library-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id int64) (*entity.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	FindAll(ctx context.Context) ([]*entity.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]*entity.Book, error)
	FindAvailable(ctx context.Context) ([]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)

	// Copy counter operations
	UpdateAvailableCopies(ctx context.Context, id int64, copies int) (bool, error)
	DecrementAvailable(ctx context.Context, id int64) (bool, error)
	IncrementAvailable(ctx context.Context, id int64) (bool, error)
}

type bookRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookRepository(db database.PgxIface, log *zap.Logger) BookRepository {
	return &bookRepository{
		db:  db,
		log: log.With(zap.String("repository", "book")),
	}
}

const bookColumns = `book_id, isbn, title, author_id, publisher_id, category_id,
       publication_year, pages, language, description, total_copies,
       available_copies, price, location, status, created_at, updated_at`

func scanBook(row pgx.Row) (*entity.Book, error) {
	var book entity.Book
	err := row.Scan(
		&book.ID,
		&book.ISBN,
		&book.Title,
		&book.AuthorID,
		&book.PublisherID,
		&book.CategoryID,
		&book.PublicationYear,
		&book.Pages,
		&book.Language,
		&book.Description,
		&book.TotalCopies,
		&book.AvailableCopies,
		&book.Price,
		&book.Location,
		&book.Status,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (isbn, title, author_id, publisher_id, category_id,
		                   publication_year, pages, language, description,
		                   total_copies, available_copies, price, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING book_id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		book.ISBN,
		book.Title,
		book.AuthorID,
		book.PublisherID,
		book.CategoryID,
		book.PublicationYear,
		book.Pages,
		book.Language,
		book.Description,
		book.TotalCopies,
		book.AvailableCopies,
		book.Price,
		book.Location,
		book.Status,
	).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create book",
			zap.Error(err),
			zap.String("isbn", book.ISBN),
			zap.String("title", book.Title),
		)
		return fmt.Errorf("create book %s: %w", book.ISBN, err)
	}

	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1`

	book, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ID",
			zap.Error(err),
			zap.Int64("book_id", id),
		)
		return nil, fmt.Errorf("find book by ID %d: %w", id, err)
	}

	return book, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`

	book, err := scanBook(r.db.QueryRow(ctx, query, isbn))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ISBN",
			zap.Error(err),
			zap.String("isbn", isbn),
		)
		return nil, fmt.Errorf("find book by ISBN %s: %w", isbn, err)
	}

	return book, nil
}

func (r *bookRepository) FindAll(ctx context.Context) ([]*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY book_id`
	return r.queryBooks(ctx, query)
}

func (r *bookRepository) SearchByTitle(ctx context.Context, title string) ([]*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
		WHERE title ILIKE $1 ORDER BY title`
	return r.queryBooks(ctx, query, "%"+title+"%")
}

func (r *bookRepository) FindAvailable(ctx context.Context) ([]*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
		WHERE available_copies > 0 ORDER BY title`
	return r.queryBooks(ctx, query)
}

func (r *bookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]*entity.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query books", zap.Error(err))
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []*entity.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			r.log.Error("Failed to scan book row", zap.Error(err))
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) (bool, error) {
	query := `
		UPDATE books
		SET isbn = $2, title = $3, author_id = $4, publisher_id = $5,
		    category_id = $6, publication_year = $7, pages = $8, language = $9,
		    description = $10, total_copies = $11, available_copies = $12,
		    price = $13, location = $14, status = $15
		WHERE book_id = $1
	`

	result, err := r.db.Exec(ctx, query,
		book.ID,
		book.ISBN,
		book.Title,
		book.AuthorID,
		book.PublisherID,
		book.CategoryID,
		book.PublicationYear,
		book.Pages,
		book.Language,
		book.Description,
		book.TotalCopies,
		book.AvailableCopies,
		book.Price,
		book.Location,
		book.Status,
	)

	if err != nil {
		r.log.Error("Failed to update book",
			zap.Error(err),
			zap.Int64("book_id", book.ID),
		)
		return false, fmt.Errorf("update book %d: %w", book.ID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes a book. The store rejects the delete while any borrowing
// still references the book (RESTRICT); that error propagates unmodified.
func (r *bookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM books WHERE book_id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete book",
			zap.Error(err),
			zap.Int64("book_id", id),
		)
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}

	if result.RowsAffected() > 0 {
		r.log.Info("Book deleted", zap.Int64("book_id", id))
		return true, nil
	}
	return false, nil
}

func (r *bookRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		r.log.Error("Failed to count books", zap.Error(err))
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}

func (r *bookRepository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM books WHERE available_copies > 0`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count available books", zap.Error(err))
		return 0, fmt.Errorf("count available books: %w", err)
	}
	return count, nil
}

func (r *bookRepository) UpdateAvailableCopies(ctx context.Context, id int64, copies int) (bool, error) {
	query := `UPDATE books SET available_copies = $2 WHERE book_id = $1`

	result, err := r.db.Exec(ctx, query, id, copies)
	if err != nil {
		r.log.Error("Failed to update available copies",
			zap.Error(err),
			zap.Int64("book_id", id),
			zap.Int("copies", copies),
		)
		return false, fmt.Errorf("update available copies for book %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

// DecrementAvailable atomically takes one copy. The WHERE guard makes this
// single statement the arbiter under contention: when no copy is left the
// update affects no row and the caller gets false, not an error.
func (r *bookRepository) DecrementAvailable(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE books SET available_copies = available_copies - 1
		WHERE book_id = $1 AND available_copies > 0
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to decrement available copies",
			zap.Error(err),
			zap.Int64("book_id", id),
		)
		return false, fmt.Errorf("decrement available copies for book %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

// IncrementAvailable atomically returns one copy, guarded so the counter
// never exceeds total_copies.
func (r *bookRepository) IncrementAvailable(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE books SET available_copies = available_copies + 1
		WHERE book_id = $1 AND available_copies < total_copies
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment available copies",
			zap.Error(err),
			zap.Int64("book_id", id),
		)
		return false, fmt.Errorf("increment available copies for book %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
