package wire

import (
	"library-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures user management routes
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, borrowingHandler *adaptor.BorrowingHandler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)            // POST /api/users
		r.Get("/", userHandler.ListUsers)            // GET /api/users?name=...
		r.Get("/{id}", userHandler.GetUser)          // GET /api/users/{id}
		r.Put("/{id}", userHandler.UpdateProfile)    // PUT /api/users/{id}
		r.Patch("/{id}/status", userHandler.SetStatus)
		r.Post("/{id}/login", userHandler.RecordLogin)
		r.Delete("/{id}", userHandler.DeleteUser)

		// Borrowing views hang off the user resource
		r.Get("/{id}/borrowings", borrowingHandler.GetUserBorrowings) // ?active=true for open loans
		r.Get("/{id}/can-borrow/{bookId}", borrowingHandler.CanBorrow)
	})
}
