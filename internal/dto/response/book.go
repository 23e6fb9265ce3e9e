package response

import (
	"time"

	"library-service/internal/data/entity"
)

type BookResponse struct {
	ID              int64             `json:"id"`
	ISBN            string            `json:"isbn"`
	Title           string            `json:"title"`
	AuthorID        int64             `json:"author_id"`
	PublisherID     *int64            `json:"publisher_id,omitempty"`
	CategoryID      *int64            `json:"category_id,omitempty"`
	PublicationYear *int              `json:"publication_year,omitempty"`
	Pages           *int              `json:"pages,omitempty"`
	Language        string            `json:"language"`
	Description     *string           `json:"description,omitempty"`
	TotalCopies     int               `json:"total_copies"`
	AvailableCopies int               `json:"available_copies"`
	Price           *float64          `json:"price,omitempty"`
	Location        *string           `json:"location,omitempty"`
	Status          entity.BookStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

func BookToResponse(book *entity.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		ISBN:            book.ISBN,
		Title:           book.Title,
		AuthorID:        book.AuthorID,
		PublisherID:     book.PublisherID,
		CategoryID:      book.CategoryID,
		PublicationYear: book.PublicationYear,
		Pages:           book.Pages,
		Language:        book.Language,
		Description:     book.Description,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		Price:           book.Price,
		Location:        book.Location,
		Status:          book.Status,
		CreatedAt:       book.CreatedAt,
	}
}

type AuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func AuthorToResponse(author *entity.Author) AuthorResponse {
	return AuthorResponse{ID: author.ID, Name: author.Name}
}

type PublisherResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func PublisherToResponse(publisher *entity.Publisher) PublisherResponse {
	return PublisherResponse{ID: publisher.ID, Name: publisher.Name}
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{ID: category.ID, Name: category.Name}
}
