package usecase

import (
	"context"
	"fmt"

	"library-service/internal/data/entity"
	"library-service/internal/data/repository"
	"library-service/internal/dto/request"
	"library-service/internal/dto/response"
	"library-service/pkg/database"
	"library-service/pkg/utils"

	"go.uber.org/zap"
)

type CatalogService interface {
	AddBook(ctx context.Context, req *request.CreateBookRequest) (*response.BookResponse, error)
	GetBook(ctx context.Context, bookID int64) (*response.BookResponse, error)
	GetBookByISBN(ctx context.Context, isbn string) (*response.BookResponse, error)
	ListBooks(ctx context.Context) ([]response.BookResponse, error)
	SearchBooks(ctx context.Context, title string) ([]response.BookResponse, error)
	ListAvailableBooks(ctx context.Context) ([]response.BookResponse, error)
	UpdateBook(ctx context.Context, bookID int64, req *request.UpdateBookRequest) (*response.BookResponse, error)
	RemoveBook(ctx context.Context, bookID int64) error

	AddAuthor(ctx context.Context, req *request.CreateAuthorRequest) (*response.AuthorResponse, error)
	ListAuthors(ctx context.Context) ([]response.AuthorResponse, error)
	AddPublisher(ctx context.Context, req *request.CreatePublisherRequest) (*response.PublisherResponse, error)
	ListPublishers(ctx context.Context) ([]response.PublisherResponse, error)
	AddCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) AddBook(ctx context.Context, req *request.CreateBookRequest) (*response.BookResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add book validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	author, err := s.repo.Author.FindByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("%w: author %d", ErrNotFound, req.AuthorID)
	}

	language := req.Language
	if language == "" {
		language = "Indonesian"
	}

	book := &entity.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		PublisherID:     req.PublisherID,
		CategoryID:      req.CategoryID,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Language:        language,
		Description:     req.Description,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		Price:           req.Price,
		Location:        req.Location,
		Status:          entity.BookStatusAvailable,
	}

	if err := s.repo.Book.Create(ctx, book); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: ISBN %s already cataloged", ErrConflict, req.ISBN)
		}
		return nil, err
	}

	s.log.Info("Book added",
		zap.Int64("book_id", book.ID),
		zap.String("isbn", book.ISBN),
		zap.String("title", book.Title),
	)

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *catalogService) GetBook(ctx context.Context, bookID int64) (*response.BookResponse, error) {
	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *catalogService) GetBookByISBN(ctx context.Context, isbn string) (*response.BookResponse, error) {
	book, err := s.repo.Book.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: book with ISBN %s", ErrNotFound, isbn)
	}

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *catalogService) ListBooks(ctx context.Context) ([]response.BookResponse, error) {
	books, err := s.repo.Book.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return booksToResponses(books), nil
}

func (s *catalogService) SearchBooks(ctx context.Context, title string) ([]response.BookResponse, error) {
	books, err := s.repo.Book.SearchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	return booksToResponses(books), nil
}

func (s *catalogService) ListAvailableBooks(ctx context.Context) ([]response.BookResponse, error) {
	books, err := s.repo.Book.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return booksToResponses(books), nil
}

func booksToResponses(books []*entity.Book) []response.BookResponse {
	responses := make([]response.BookResponse, len(books))
	for i, book := range books {
		responses[i] = response.BookToResponse(book)
	}
	return responses
}

func (s *catalogService) UpdateBook(ctx context.Context, bookID int64, req *request.UpdateBookRequest) (*response.BookResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update book validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}

	book.Title = req.Title
	book.PublisherID = req.PublisherID
	book.CategoryID = req.CategoryID
	book.PublicationYear = req.PublicationYear
	book.Pages = req.Pages
	book.Description = req.Description
	book.Price = req.Price
	book.Location = req.Location
	if req.Language != "" {
		book.Language = req.Language
	}
	if req.Status != "" {
		book.Status = entity.BookStatus(req.Status)
	}

	updated, err := s.repo.Book.Update(ctx, book)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}

	s.log.Info("Book updated", zap.Int64("book_id", bookID))

	resp := response.BookToResponse(book)
	return &resp, nil
}

// RemoveBook deletes a catalog entry. The RESTRICT foreign key is the
// authority: a delete while any borrowing still references the book is
// rejected by the store and reported as a conflict.
func (s *catalogService) RemoveBook(ctx context.Context, bookID int64) error {
	deleted, err := s.repo.Book.Delete(ctx, bookID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			s.log.Warn("Book delete blocked by existing borrowings",
				zap.Int64("book_id", bookID),
				zap.String("constraint", database.ConstraintName(err)),
			)
			return fmt.Errorf("%w: book %d has borrowings on record", ErrConflict, bookID)
		}
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}
	return nil
}

func (s *catalogService) AddAuthor(ctx context.Context, req *request.CreateAuthorRequest) (*response.AuthorResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	author := &entity.Author{Name: req.Name}
	if err := s.repo.Author.Create(ctx, author); err != nil {
		return nil, err
	}

	resp := response.AuthorToResponse(author)
	return &resp, nil
}

func (s *catalogService) ListAuthors(ctx context.Context) ([]response.AuthorResponse, error) {
	authors, err := s.repo.Author.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]response.AuthorResponse, len(authors))
	for i, author := range authors {
		responses[i] = response.AuthorToResponse(author)
	}
	return responses, nil
}

func (s *catalogService) AddPublisher(ctx context.Context, req *request.CreatePublisherRequest) (*response.PublisherResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	publisher := &entity.Publisher{Name: req.Name}
	if err := s.repo.Publisher.Create(ctx, publisher); err != nil {
		return nil, err
	}

	resp := response.PublisherToResponse(publisher)
	return &resp, nil
}

func (s *catalogService) ListPublishers(ctx context.Context) ([]response.PublisherResponse, error) {
	publishers, err := s.repo.Publisher.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]response.PublisherResponse, len(publishers))
	for i, publisher := range publishers {
		responses[i] = response.PublisherToResponse(publisher)
	}
	return responses, nil
}

func (s *catalogService) AddCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	category := &entity.Category{Name: req.Name}
	if err := s.repo.Category.Create(ctx, category); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %s already exists", ErrConflict, req.Name)
		}
		return nil, err
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]response.CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = response.CategoryToResponse(category)
	}
	return responses, nil
}
