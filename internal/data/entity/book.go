package entity

import "time"

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusUnavailable BookStatus = "unavailable"
	BookStatusMaintenance BookStatus = "maintenance"
)

// Book is a catalog record. AvailableCopies is the shared counter that
// concurrent borrow/return operations contend on; the guarded updates in
// BookRepository keep it within [0, TotalCopies].
type Book struct {
	ID              int64      `db:"book_id"`
	ISBN            string     `db:"isbn"`
	Title           string     `db:"title"`
	AuthorID        int64      `db:"author_id"`
	PublisherID     *int64     `db:"publisher_id"`
	CategoryID      *int64     `db:"category_id"`
	PublicationYear *int       `db:"publication_year"`
	Pages           *int       `db:"pages"`
	Language        string     `db:"language"`
	Description     *string    `db:"description"`
	TotalCopies     int        `db:"total_copies"`
	AvailableCopies int        `db:"available_copies"`
	Price           *float64   `db:"price"`
	Location        *string    `db:"location"`
	Status          BookStatus `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}
