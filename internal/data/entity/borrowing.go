package entity

import "time"

type BorrowingStatus string

const (
	BorrowingStatusBorrowed BorrowingStatus = "borrowed"
	BorrowingStatusReturned BorrowingStatus = "returned"
	BorrowingStatusOverdue  BorrowingStatus = "overdue"
	BorrowingStatusLost     BorrowingStatus = "lost"
)

// Borrowing tracks one lending lifecycle. ReturnDate is nil while the
// borrowing is active and set exactly once on return.
type Borrowing struct {
	ID         int64           `db:"borrowing_id"`
	UserID     int64           `db:"user_id"`
	BookID     int64           `db:"book_id"`
	BorrowDate time.Time       `db:"borrow_date"`
	DueDate    time.Time       `db:"due_date"`
	ReturnDate *time.Time      `db:"return_date"`
	Status     BorrowingStatus `db:"status"`
	FineAmount float64         `db:"fine_amount"`
	FinePaid   bool            `db:"fine_paid"`
	Notes      *string         `db:"notes"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// Active reports whether the book has not been returned yet.
func (b *Borrowing) Active() bool {
	return b.ReturnDate == nil
}
