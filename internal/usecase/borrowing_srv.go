package usecase

import (
	"context"
	"fmt"
	"time"

	"library-service/internal/data/entity"
	"library-service/internal/data/repository"
	"library-service/internal/dto/response"
	"library-service/pkg/utils"

	"go.uber.org/zap"
)

type BorrowingService interface {
	BorrowBook(ctx context.Context, userID, bookID int64, borrowDays int) (*response.BorrowingResponse, error)
	ReturnBook(ctx context.Context, borrowingID int64) error
	CalculateFine(ctx context.Context, borrowingID int64) (float64, error)
	CanUserBorrowBook(ctx context.Context, userID, bookID int64) (bool, error)
	UpdateOverdueStatus(ctx context.Context) (*response.OverdueSweepResponse, error)

	GetBorrowing(ctx context.Context, borrowingID int64) (*response.BorrowingResponse, error)
	GetUserActiveBorrowings(ctx context.Context, userID int64) ([]response.BorrowingResponse, error)
	GetUserBorrowingHistory(ctx context.Context, userID int64) ([]response.BorrowingResponse, error)

	MarkLost(ctx context.Context, borrowingID int64) error
	PayFine(ctx context.Context, borrowingID int64) error
}

type borrowingService struct {
	repo       *repository.Repository
	maxActive  int
	finePerDay float64
	log        *zap.Logger
}

func NewBorrowingService(repo *repository.Repository, config *utils.Config, log *zap.Logger) BorrowingService {
	return &borrowingService{
		repo:       repo,
		maxActive:  config.Borrowing.MaxActiveBorrowings,
		finePerDay: config.Borrowing.FinePerDay,
		log:        log.With(zap.String("service", "borrowing")),
	}
}

// BorrowBook runs the borrow workflow. The availability read is advisory;
// the guarded decrement is the authoritative check, so a caller that passed
// the read can still lose to a concurrent borrower and must fail cleanly.
func (s *borrowingService) BorrowBook(ctx context.Context, userID, bookID int64, borrowDays int) (*response.BorrowingResponse, error) {
	if borrowDays <= 0 {
		return nil, fmt.Errorf("%w: borrow days must be positive, got %d", ErrInvalidArgument, borrowDays)
	}
	if userID <= 0 || bookID <= 0 {
		return nil, fmt.Errorf("%w: user ID and book ID are required", ErrInvalidArgument)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	if user.Status != entity.UserStatusActive {
		s.log.Warn("Borrow rejected, account not active",
			zap.Int64("user_id", userID),
			zap.String("status", string(user.Status)),
		)
		return nil, fmt.Errorf("%w: user account is not active (status: %s)", ErrConflict, user.Status)
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}

	if book.AvailableCopies <= 0 {
		return nil, fmt.Errorf("%w: no copies available for book %d", ErrConflict, bookID)
	}

	activeCount, err := s.repo.Borrowing.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if activeCount >= s.maxActive {
		s.log.Warn("Borrow rejected, limit reached",
			zap.Int64("user_id", userID),
			zap.Int("active_borrowings", activeCount),
		)
		return nil, fmt.Errorf("%w: borrowing limit reached (%d active)", ErrConflict, activeCount)
	}

	// The decisive step: the conditional update re-verifies availability
	// atomically, closing the gap between the read above and this write.
	decremented, err := s.repo.Book.DecrementAvailable(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !decremented {
		s.log.Warn("Borrow lost race for last copy", zap.Int64("book_id", bookID))
		return nil, fmt.Errorf("%w: no copies available for book %d", ErrConflict, bookID)
	}

	notes := fmt.Sprintf("Borrowed for %d days", borrowDays)
	borrowing := &entity.Borrowing{
		UserID:  userID,
		BookID:  bookID,
		DueDate: time.Now().Add(time.Duration(borrowDays) * 24 * time.Hour),
		Status:  entity.BorrowingStatusBorrowed,
		Notes:   &notes,
	}

	if err := s.repo.Borrowing.Create(ctx, borrowing); err != nil {
		// Put the copy back so a failed insert does not leak availability.
		if _, incErr := s.repo.Book.IncrementAvailable(ctx, bookID); incErr != nil {
			s.log.Error("Failed to restore available copies after create failure",
				zap.Error(incErr),
				zap.Int64("book_id", bookID),
			)
		}
		return nil, err
	}

	s.log.Info("Book borrowed",
		zap.Int64("borrowing_id", borrowing.ID),
		zap.Int64("user_id", userID),
		zap.Int64("book_id", bookID),
		zap.Time("due_date", borrowing.DueDate),
	)

	resp := response.BorrowingToResponse(borrowing)
	return &resp, nil
}

// ReturnBook closes a borrowing and gives the copy back. The two writes are
// a compensating pair, not one transaction: the guarded MarkReturned commits
// the return, and an increment failure afterwards is a consistency fault
// that is logged and surfaced without unwinding the return.
func (s *borrowingService) ReturnBook(ctx context.Context, borrowingID int64) error {
	borrowing, err := s.repo.Borrowing.FindByID(ctx, borrowingID)
	if err != nil {
		return err
	}
	if borrowing == nil {
		return fmt.Errorf("%w: borrowing %d", ErrNotFound, borrowingID)
	}

	if borrowing.ReturnDate != nil {
		return fmt.Errorf("%w: borrowing %d already returned", ErrConflict, borrowingID)
	}

	returned, err := s.repo.Borrowing.MarkReturned(ctx, borrowingID, time.Now())
	if err != nil {
		return err
	}
	if !returned {
		// A concurrent return won the guarded update between our read and
		// this write.
		return fmt.Errorf("%w: borrowing %d already returned", ErrConflict, borrowingID)
	}

	increased, err := s.repo.Book.IncrementAvailable(ctx, borrowing.BookID)
	if err != nil {
		s.log.Error("Return committed but copy restore failed",
			zap.Error(err),
			zap.Int64("borrowing_id", borrowingID),
			zap.Int64("book_id", borrowing.BookID),
		)
		return err
	}
	if !increased {
		s.log.Error("Return committed but available copies already at total",
			zap.Int64("borrowing_id", borrowingID),
			zap.Int64("book_id", borrowing.BookID),
		)
		return fmt.Errorf("%w: available copies for book %d already at total", ErrConflict, borrowing.BookID)
	}

	s.log.Info("Book returned",
		zap.Int64("borrowing_id", borrowingID),
		zap.Int64("book_id", borrowing.BookID),
	)

	return nil
}

// CalculateFine computes the outstanding fine for a borrowing. Returned
// borrowings report their stored amount; active ones accrue per whole
// overdue day, truncated.
func (s *borrowingService) CalculateFine(ctx context.Context, borrowingID int64) (float64, error) {
	borrowing, err := s.repo.Borrowing.FindByID(ctx, borrowingID)
	if err != nil {
		return 0, err
	}
	if borrowing == nil {
		return 0, fmt.Errorf("%w: borrowing %d", ErrNotFound, borrowingID)
	}

	if borrowing.ReturnDate != nil {
		return borrowing.FineAmount, nil
	}

	return s.accruedFine(borrowing, time.Now()), nil
}

func (s *borrowingService) accruedFine(borrowing *entity.Borrowing, now time.Time) float64 {
	if !borrowing.DueDate.Before(now) {
		return 0
	}

	overdueDays := int64(now.Sub(borrowing.DueDate) / (24 * time.Hour))
	return float64(overdueDays) * s.finePerDay
}

// CanUserBorrowBook mirrors BorrowBook's preconditions without mutating
// anything. Every failing precondition, including a missing user or book,
// yields false rather than an error; only store failures propagate.
func (s *borrowingService) CanUserBorrowBook(ctx context.Context, userID, bookID int64) (bool, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return false, nil
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		return false, err
	}
	if book == nil || book.AvailableCopies <= 0 {
		return false, nil
	}

	activeCount, err := s.repo.Borrowing.CountActiveByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if activeCount >= s.maxActive {
		return false, nil
	}

	return true, nil
}

// UpdateOverdueStatus sweeps active borrowings past their due date, marking
// them overdue and persisting the accrued fine. The sweep is best-effort
// per row: a failure on one borrowing is logged and counted, and the
// remaining rows are still processed.
func (s *borrowingService) UpdateOverdueStatus(ctx context.Context) (*response.OverdueSweepResponse, error) {
	overdue, err := s.repo.Borrowing.FindOverdue(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &response.OverdueSweepResponse{}

	for _, borrowing := range overdue {
		if borrowing.Status != entity.BorrowingStatusOverdue {
			if _, err := s.repo.Borrowing.UpdateStatus(ctx, borrowing.ID, entity.BorrowingStatusOverdue); err != nil {
				s.log.Error("Overdue sweep: status update failed",
					zap.Error(err),
					zap.Int64("borrowing_id", borrowing.ID),
				)
				result.Failed++
				continue
			}
		}

		fine := s.accruedFine(borrowing, now)
		if _, err := s.repo.Borrowing.UpdateFineAmount(ctx, borrowing.ID, fine); err != nil {
			s.log.Error("Overdue sweep: fine update failed",
				zap.Error(err),
				zap.Int64("borrowing_id", borrowing.ID),
			)
			result.Failed++
			continue
		}

		result.Processed++
	}

	s.log.Info("Overdue sweep completed",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Int("total", len(overdue)),
	)

	return result, nil
}

func (s *borrowingService) GetBorrowing(ctx context.Context, borrowingID int64) (*response.BorrowingResponse, error) {
	borrowing, err := s.repo.Borrowing.FindByID(ctx, borrowingID)
	if err != nil {
		return nil, err
	}
	if borrowing == nil {
		return nil, fmt.Errorf("%w: borrowing %d", ErrNotFound, borrowingID)
	}

	resp := response.BorrowingToResponse(borrowing)
	return &resp, nil
}

func (s *borrowingService) GetUserActiveBorrowings(ctx context.Context, userID int64) ([]response.BorrowingResponse, error) {
	borrowings, err := s.repo.Borrowing.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var responses []response.BorrowingResponse
	for _, borrowing := range borrowings {
		if borrowing.Active() {
			responses = append(responses, response.BorrowingToResponse(borrowing))
		}
	}

	return responses, nil
}

func (s *borrowingService) GetUserBorrowingHistory(ctx context.Context, userID int64) ([]response.BorrowingResponse, error) {
	borrowings, err := s.repo.Borrowing.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]response.BorrowingResponse, len(borrowings))
	for i, borrowing := range borrowings {
		responses[i] = response.BorrowingToResponse(borrowing)
	}

	return responses, nil
}

// MarkLost moves an active borrowing to the terminal lost state. The copy
// is not restored to availability.
func (s *borrowingService) MarkLost(ctx context.Context, borrowingID int64) error {
	borrowing, err := s.repo.Borrowing.FindByID(ctx, borrowingID)
	if err != nil {
		return err
	}
	if borrowing == nil {
		return fmt.Errorf("%w: borrowing %d", ErrNotFound, borrowingID)
	}

	if borrowing.ReturnDate != nil {
		return fmt.Errorf("%w: borrowing %d already returned", ErrConflict, borrowingID)
	}
	if borrowing.Status == entity.BorrowingStatusLost {
		return fmt.Errorf("%w: borrowing %d already marked lost", ErrConflict, borrowingID)
	}

	if _, err := s.repo.Borrowing.UpdateStatus(ctx, borrowingID, entity.BorrowingStatusLost); err != nil {
		return err
	}

	s.log.Info("Borrowing marked lost", zap.Int64("borrowing_id", borrowingID))
	return nil
}

// PayFine settles an outstanding fine. Settlement happens once the loan is
// closed out, by return or by a lost write-off.
func (s *borrowingService) PayFine(ctx context.Context, borrowingID int64) error {
	borrowing, err := s.repo.Borrowing.FindByID(ctx, borrowingID)
	if err != nil {
		return err
	}
	if borrowing == nil {
		return fmt.Errorf("%w: borrowing %d", ErrNotFound, borrowingID)
	}

	if borrowing.ReturnDate == nil && borrowing.Status != entity.BorrowingStatusLost {
		return fmt.Errorf("%w: borrowing %d is still open", ErrConflict, borrowingID)
	}
	if borrowing.FineAmount <= 0 {
		return fmt.Errorf("%w: borrowing %d has no outstanding fine", ErrConflict, borrowingID)
	}
	if borrowing.FinePaid {
		return fmt.Errorf("%w: fine for borrowing %d already paid", ErrConflict, borrowingID)
	}

	if _, err := s.repo.Borrowing.UpdateFinePaid(ctx, borrowingID, true); err != nil {
		return err
	}

	s.log.Info("Fine paid",
		zap.Int64("borrowing_id", borrowingID),
		zap.Float64("fine_amount", borrowing.FineAmount),
	)
	return nil
}
