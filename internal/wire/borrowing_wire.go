package wire

import (
	"library-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireBorrowing configures the borrowing lifecycle routes
func wireBorrowing(r chi.Router, borrowingHandler *adaptor.BorrowingHandler) {
	r.Route("/api/borrowings", func(r chi.Router) {
		r.Post("/", borrowingHandler.BorrowBook)             // POST /api/borrowings
		r.Post("/overdue-sweep", borrowingHandler.SweepOverdue)
		r.Get("/{id}", borrowingHandler.GetBorrowing)        // GET /api/borrowings/{id}
		r.Post("/{id}/return", borrowingHandler.ReturnBook)  // POST /api/borrowings/{id}/return
		r.Get("/{id}/fine", borrowingHandler.GetFine)        // GET /api/borrowings/{id}/fine
		r.Post("/{id}/pay-fine", borrowingHandler.PayFine)
		r.Post("/{id}/lost", borrowingHandler.MarkLost)
	})
}
