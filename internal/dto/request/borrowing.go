package request

type BorrowBookRequest struct {
	UserID     int64 `json:"user_id" validate:"required,gt=0"`
	BookID     int64 `json:"book_id" validate:"required,gt=0"`
	BorrowDays int   `json:"borrow_days" validate:"required,gt=0"`
}
