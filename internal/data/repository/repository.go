package repository

import (
	"library-service/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Author    AuthorRepository
	Publisher PublisherRepository
	Category  CategoryRepository
	Book      BookRepository
	Borrowing BorrowingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Author:    NewAuthorRepository(db, log),
		Publisher: NewPublisherRepository(db, log),
		Category:  NewCategoryRepository(db, log),
		Book:      NewBookRepository(db, log),
		Borrowing: NewBorrowingRepository(db, log),
	}
}
