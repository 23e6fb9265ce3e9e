package adaptor

import (
	"encoding/json"
	"net/http"

	"library-service/internal/dto/request"
	"library-service/internal/dto/response"
	"library-service/internal/usecase"
	"library-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BorrowingHandler struct {
	service usecase.BorrowingService
	log     *zap.Logger
}

func NewBorrowingHandler(service usecase.BorrowingService, log *zap.Logger) *BorrowingHandler {
	return &BorrowingHandler{
		service: service,
		log:     log,
	}
}

// BorrowBook handles POST /api/borrowings
func (h *BorrowingHandler) BorrowBook(w http.ResponseWriter, r *http.Request) {
	var req request.BorrowBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	borrowing, err := h.service.BorrowBook(r.Context(), req.UserID, req.BookID, req.BorrowDays)
	if err != nil {
		writeServiceError(w, h.log, err, "borrow book")
		return
	}

	utils.ResponseCreated(w, "Book borrowed successfully", borrowing)
}

// ReturnBook handles POST /api/borrowings/{id}/return
func (h *BorrowingHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid borrowing ID", nil)
		return
	}

	if err := h.service.ReturnBook(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "return book")
		return
	}

	utils.ResponseSuccess(w, "Book returned successfully", nil)
}

// GetBorrowing handles GET /api/borrowings/{id}
func (h *BorrowingHandler) GetBorrowing(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid borrowing ID", nil)
		return
	}

	borrowing, err := h.service.GetBorrowing(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "get borrowing")
		return
	}

	utils.ResponseSuccess(w, "Borrowing retrieved successfully", borrowing)
}

// GetFine handles GET /api/borrowings/{id}/fine
func (h *BorrowingHandler) GetFine(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid borrowing ID", nil)
		return
	}

	fine, err := h.service.CalculateFine(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "calculate fine")
		return
	}

	utils.ResponseSuccess(w, "Fine calculated successfully", response.FineResponse{
		BorrowingID: id,
		FineAmount:  fine,
	})
}

// PayFine handles POST /api/borrowings/{id}/pay-fine
func (h *BorrowingHandler) PayFine(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid borrowing ID", nil)
		return
	}

	if err := h.service.PayFine(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "pay fine")
		return
	}

	utils.ResponseSuccess(w, "Fine paid successfully", nil)
}

// MarkLost handles POST /api/borrowings/{id}/lost
func (h *BorrowingHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid borrowing ID", nil)
		return
	}

	if err := h.service.MarkLost(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "mark borrowing lost")
		return
	}

	utils.ResponseSuccess(w, "Borrowing marked as lost", nil)
}

// GetUserBorrowings handles GET /api/users/{id}/borrowings with optional
// ?active=true filter
func (h *BorrowingHandler) GetUserBorrowings(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if r.URL.Query().Get("active") == "true" {
		borrowings, err := h.service.GetUserActiveBorrowings(r.Context(), id)
		if err != nil {
			writeServiceError(w, h.log, err, "get active borrowings")
			return
		}
		utils.ResponseSuccess(w, "Borrowings retrieved successfully", borrowings)
		return
	}

	borrowings, err := h.service.GetUserBorrowingHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "get borrowing history")
		return
	}

	utils.ResponseSuccess(w, "Borrowings retrieved successfully", borrowings)
}

// CanBorrow handles GET /api/users/{id}/can-borrow/{bookId}
func (h *BorrowingHandler) CanBorrow(w http.ResponseWriter, r *http.Request) {
	userID := utils.ParseID(chi.URLParam(r, "id"))
	bookID := utils.ParseID(chi.URLParam(r, "bookId"))
	if userID == 0 || bookID == 0 {
		utils.ResponseBadRequest(w, "Invalid user or book ID", nil)
		return
	}

	allowed, err := h.service.CanUserBorrowBook(r.Context(), userID, bookID)
	if err != nil {
		writeServiceError(w, h.log, err, "check borrow eligibility")
		return
	}

	utils.ResponseSuccess(w, "Eligibility checked", map[string]bool{"can_borrow": allowed})
}

// SweepOverdue handles POST /api/borrowings/overdue-sweep
func (h *BorrowingHandler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.UpdateOverdueStatus(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "sweep overdue borrowings")
		return
	}

	utils.ResponseSuccess(w, "Overdue sweep completed", result)
}
