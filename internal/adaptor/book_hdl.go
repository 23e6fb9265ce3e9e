package adaptor

import (
	"encoding/json"
	"net/http"

	"library-service/internal/dto/request"
	"library-service/internal/usecase"
	"library-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewBookHandler(service usecase.CatalogService, log *zap.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		log:     log,
	}
}

// AddBook handles POST /api/books
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	book, err := h.service.AddBook(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add book")
		return
	}

	utils.ResponseCreated(w, "Book added successfully", book)
}

// GetBook handles GET /api/books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid book ID", nil)
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "get book")
		return
	}

	utils.ResponseSuccess(w, "Book retrieved successfully", book)
}

// GetBookByISBN handles GET /api/books/isbn/{isbn}
func (h *BookHandler) GetBookByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	if isbn == "" {
		utils.ResponseBadRequest(w, "ISBN is required", nil)
		return
	}

	book, err := h.service.GetBookByISBN(r.Context(), isbn)
	if err != nil {
		writeServiceError(w, h.log, err, "get book by ISBN")
		return
	}

	utils.ResponseSuccess(w, "Book retrieved successfully", book)
}

// ListBooks handles GET /api/books with optional ?title= search and
// ?available=true filter
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if title := query.Get("title"); title != "" {
		books, err := h.service.SearchBooks(r.Context(), title)
		if err != nil {
			writeServiceError(w, h.log, err, "search books")
			return
		}
		utils.ResponseSuccess(w, "Books retrieved successfully", books)
		return
	}

	if query.Get("available") == "true" {
		books, err := h.service.ListAvailableBooks(r.Context())
		if err != nil {
			writeServiceError(w, h.log, err, "list available books")
			return
		}
		utils.ResponseSuccess(w, "Books retrieved successfully", books)
		return
	}

	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list books")
		return
	}

	utils.ResponseSuccess(w, "Books retrieved successfully", books)
}

// UpdateBook handles PUT /api/books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid book ID", nil)
		return
	}

	var req request.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update book")
		return
	}

	utils.ResponseSuccess(w, "Book updated successfully", book)
}

// RemoveBook handles DELETE /api/books/{id}
func (h *BookHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid book ID", nil)
		return
	}

	if err := h.service.RemoveBook(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "remove book")
		return
	}

	utils.ResponseSuccess(w, "Book removed successfully", nil)
}

// AddAuthor handles POST /api/authors
func (h *BookHandler) AddAuthor(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	author, err := h.service.AddAuthor(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add author")
		return
	}

	utils.ResponseCreated(w, "Author added successfully", author)
}

// ListAuthors handles GET /api/authors
func (h *BookHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.ListAuthors(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list authors")
		return
	}

	utils.ResponseSuccess(w, "Authors retrieved successfully", authors)
}

// AddPublisher handles POST /api/publishers
func (h *BookHandler) AddPublisher(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePublisherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	publisher, err := h.service.AddPublisher(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add publisher")
		return
	}

	utils.ResponseCreated(w, "Publisher added successfully", publisher)
}

// ListPublishers handles GET /api/publishers
func (h *BookHandler) ListPublishers(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.service.ListPublishers(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list publishers")
		return
	}

	utils.ResponseSuccess(w, "Publishers retrieved successfully", publishers)
}

// AddCategory handles POST /api/categories
func (h *BookHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.AddCategory(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add category")
		return
	}

	utils.ResponseCreated(w, "Category added successfully", category)
}

// ListCategories handles GET /api/categories
func (h *BookHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "Categories retrieved successfully", categories)
}
