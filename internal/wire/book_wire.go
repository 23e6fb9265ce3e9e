package wire

import (
	"library-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireBook configures catalog routes: books plus their reference data
func wireBook(r chi.Router, bookHandler *adaptor.BookHandler) {
	r.Route("/api/books", func(r chi.Router) {
		r.Post("/", bookHandler.AddBook)            // POST /api/books
		r.Get("/", bookHandler.ListBooks)           // GET /api/books?title=...&available=true
		r.Get("/isbn/{isbn}", bookHandler.GetBookByISBN)
		r.Get("/{id}", bookHandler.GetBook)         // GET /api/books/{id}
		r.Put("/{id}", bookHandler.UpdateBook)      // PUT /api/books/{id}
		r.Delete("/{id}", bookHandler.RemoveBook)   // DELETE /api/books/{id}
	})

	r.Route("/api/authors", func(r chi.Router) {
		r.Post("/", bookHandler.AddAuthor)
		r.Get("/", bookHandler.ListAuthors)
	})

	r.Route("/api/publishers", func(r chi.Router) {
		r.Post("/", bookHandler.AddPublisher)
		r.Get("/", bookHandler.ListPublishers)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", bookHandler.AddCategory)
		r.Get("/", bookHandler.ListCategories)
	})
}
