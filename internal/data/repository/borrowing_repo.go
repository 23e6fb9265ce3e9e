package repository

import (
	"context"
	"fmt"
	"time"

	"library-service/internal/data/entity"
	"library-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BorrowingRepository interface {
	Create(ctx context.Context, borrowing *entity.Borrowing) error
	FindByID(ctx context.Context, id int64) (*entity.Borrowing, error)
	FindByUserID(ctx context.Context, userID int64) ([]*entity.Borrowing, error)
	FindByBookID(ctx context.Context, bookID int64) ([]*entity.Borrowing, error)
	FindActive(ctx context.Context) ([]*entity.Borrowing, error)
	FindOverdue(ctx context.Context) ([]*entity.Borrowing, error)
	MarkReturned(ctx context.Context, id int64, returnDate time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status entity.BorrowingStatus) (bool, error)
	UpdateFineAmount(ctx context.Context, id int64, amount float64) (bool, error)
	UpdateFinePaid(ctx context.Context, id int64, paid bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
}

type borrowingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBorrowingRepository(db database.PgxIface, log *zap.Logger) BorrowingRepository {
	return &borrowingRepository{
		db:  db,
		log: log.With(zap.String("repository", "borrowing")),
	}
}

const borrowingColumns = `borrowing_id, user_id, book_id, borrow_date, due_date,
       return_date, status, fine_amount, fine_paid, notes, created_at, updated_at`

func scanBorrowing(row pgx.Row) (*entity.Borrowing, error) {
	var borrowing entity.Borrowing
	err := row.Scan(
		&borrowing.ID,
		&borrowing.UserID,
		&borrowing.BookID,
		&borrowing.BorrowDate,
		&borrowing.DueDate,
		&borrowing.ReturnDate,
		&borrowing.Status,
		&borrowing.FineAmount,
		&borrowing.FinePaid,
		&borrowing.Notes,
		&borrowing.CreatedAt,
		&borrowing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &borrowing, nil
}

// Create inserts a borrowing row. borrow_date is set by the store; the
// due_date > borrow_date check lives in the schema.
func (r *borrowingRepository) Create(ctx context.Context, borrowing *entity.Borrowing) error {
	query := `
		INSERT INTO borrowings (user_id, book_id, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING borrowing_id, borrow_date, fine_amount, fine_paid, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		borrowing.UserID,
		borrowing.BookID,
		borrowing.DueDate,
		borrowing.Status,
		borrowing.Notes,
	).Scan(
		&borrowing.ID,
		&borrowing.BorrowDate,
		&borrowing.FineAmount,
		&borrowing.FinePaid,
		&borrowing.CreatedAt,
		&borrowing.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create borrowing",
			zap.Error(err),
			zap.Int64("user_id", borrowing.UserID),
			zap.Int64("book_id", borrowing.BookID),
		)
		return fmt.Errorf("create borrowing for user %d, book %d: %w",
			borrowing.UserID, borrowing.BookID, err)
	}

	return nil
}

func (r *borrowingRepository) FindByID(ctx context.Context, id int64) (*entity.Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings WHERE borrowing_id = $1`

	borrowing, err := scanBorrowing(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find borrowing by ID",
			zap.Error(err),
			zap.Int64("borrowing_id", id),
		)
		return nil, fmt.Errorf("find borrowing by ID %d: %w", id, err)
	}

	return borrowing, nil
}

func (r *borrowingRepository) FindByUserID(ctx context.Context, userID int64) ([]*entity.Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings
		WHERE user_id = $1 ORDER BY borrow_date DESC`
	return r.queryBorrowings(ctx, query, userID)
}

func (r *borrowingRepository) FindByBookID(ctx context.Context, bookID int64) ([]*entity.Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings
		WHERE book_id = $1 ORDER BY borrow_date DESC`
	return r.queryBorrowings(ctx, query, bookID)
}

func (r *borrowingRepository) FindActive(ctx context.Context) ([]*entity.Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings
		WHERE return_date IS NULL ORDER BY borrow_date`
	return r.queryBorrowings(ctx, query)
}

// FindOverdue returns active borrowings whose due date has passed.
func (r *borrowingRepository) FindOverdue(ctx context.Context) ([]*entity.Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings
		WHERE return_date IS NULL AND due_date < CURRENT_TIMESTAMP
		ORDER BY due_date`
	return r.queryBorrowings(ctx, query)
}

func (r *borrowingRepository) queryBorrowings(ctx context.Context, query string, args ...any) ([]*entity.Borrowing, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query borrowings", zap.Error(err))
		return nil, fmt.Errorf("query borrowings: %w", err)
	}
	defer rows.Close()

	var borrowings []*entity.Borrowing
	for rows.Next() {
		borrowing, err := scanBorrowing(rows)
		if err != nil {
			r.log.Error("Failed to scan borrowing row", zap.Error(err))
			return nil, fmt.Errorf("scan borrowing row: %w", err)
		}
		borrowings = append(borrowings, borrowing)
	}

	return borrowings, rows.Err()
}

// MarkReturned closes a borrowing. The return_date IS NULL guard makes the
// transition atomic: a second caller affects no row and gets false.
func (r *borrowingRepository) MarkReturned(ctx context.Context, id int64, returnDate time.Time) (bool, error) {
	query := `
		UPDATE borrowings SET return_date = $2, status = 'returned'
		WHERE borrowing_id = $1 AND return_date IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, returnDate)
	if err != nil {
		r.log.Error("Failed to mark borrowing returned",
			zap.Error(err),
			zap.Int64("borrowing_id", id),
		)
		return false, fmt.Errorf("mark borrowing %d returned: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *borrowingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BorrowingStatus) (bool, error) {
	query := `UPDATE borrowings SET status = $2 WHERE borrowing_id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update borrowing status",
			zap.Error(err),
			zap.Int64("borrowing_id", id),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update borrowing %d status to %s: %w", id, status, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *borrowingRepository) UpdateFineAmount(ctx context.Context, id int64, amount float64) (bool, error) {
	query := `UPDATE borrowings SET fine_amount = $2 WHERE borrowing_id = $1`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to update fine amount",
			zap.Error(err),
			zap.Int64("borrowing_id", id),
			zap.Float64("fine_amount", amount),
		)
		return false, fmt.Errorf("update borrowing %d fine amount: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *borrowingRepository) UpdateFinePaid(ctx context.Context, id int64, paid bool) (bool, error) {
	query := `UPDATE borrowings SET fine_paid = $2 WHERE borrowing_id = $1`

	result, err := r.db.Exec(ctx, query, id, paid)
	if err != nil {
		r.log.Error("Failed to update fine paid flag",
			zap.Error(err),
			zap.Int64("borrowing_id", id),
		)
		return false, fmt.Errorf("update borrowing %d fine paid: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *borrowingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM borrowings WHERE borrowing_id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete borrowing",
			zap.Error(err),
			zap.Int64("borrowing_id", id),
		)
		return false, fmt.Errorf("delete borrowing %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *borrowingRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM borrowings`).Scan(&count); err != nil {
		r.log.Error("Failed to count borrowings", zap.Error(err))
		return 0, fmt.Errorf("count borrowings: %w", err)
	}
	return count, nil
}

func (r *borrowingRepository) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM borrowings WHERE user_id = $1 AND return_date IS NULL`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count active borrowings",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return 0, fmt.Errorf("count active borrowings for user %d: %w", userID, err)
	}

	return count, nil
}
