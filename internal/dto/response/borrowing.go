package response

import (
	"time"

	"library-service/internal/data/entity"
)

type BorrowingResponse struct {
	ID         int64                  `json:"id"`
	UserID     int64                  `json:"user_id"`
	BookID     int64                  `json:"book_id"`
	BorrowDate time.Time              `json:"borrow_date"`
	DueDate    time.Time              `json:"due_date"`
	ReturnDate *time.Time             `json:"return_date,omitempty"`
	Status     entity.BorrowingStatus `json:"status"`
	FineAmount float64                `json:"fine_amount"`
	FinePaid   bool                   `json:"fine_paid"`
	Notes      *string                `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func BorrowingToResponse(borrowing *entity.Borrowing) BorrowingResponse {
	return BorrowingResponse{
		ID:         borrowing.ID,
		UserID:     borrowing.UserID,
		BookID:     borrowing.BookID,
		BorrowDate: borrowing.BorrowDate,
		DueDate:    borrowing.DueDate,
		ReturnDate: borrowing.ReturnDate,
		Status:     borrowing.Status,
		FineAmount: borrowing.FineAmount,
		FinePaid:   borrowing.FinePaid,
		Notes:      borrowing.Notes,
		CreatedAt:  borrowing.CreatedAt,
	}
}

type FineResponse struct {
	BorrowingID int64   `json:"borrowing_id"`
	FineAmount  float64 `json:"fine_amount"`
}

type OverdueSweepResponse struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
