package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"library-service/internal/data/entity"
	"library-service/internal/data/repository"
	"library-service/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// errUniqueViolation builds the duplicate-key error the driver would
// surface, so the services' SQLSTATE classification is exercised.
func errUniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           "23505",
		ConstraintName: constraint,
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
	}
}

func errForeignKeyViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           "23503",
		ConstraintName: constraint,
		Message:        "update or delete violates foreign key constraint \"" + constraint + "\"",
	}
}

// In-memory repository fakes. Each keeps its rows in a map and mimics the
// guarded-update semantics of the real SQL, so the services can be tested
// without a database.

type fakeUserRepo struct {
	users     map[int64]*entity.User
	nextID    int64
	findErr   error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errUniqueViolation("users_username_key")
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.RegistrationDate = time.Now()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	return f.sorted(), nil
}

func (f *fakeUserRepo) SearchByName(_ context.Context, keyword string) ([]*entity.User, error) {
	var out []*entity.User
	for _, user := range f.sorted() {
		if strings.Contains(strings.ToLower(user.FullName), strings.ToLower(keyword)) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) (bool, error) {
	if _, ok := f.users[user.ID]; !ok {
		return false, nil
	}
	f.users[user.ID] = user
	return true, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) (bool, error) {
	user, ok := f.users[id]
	if !ok {
		return false, nil
	}
	now := time.Now()
	user.LastLogin = &now
	return true, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) sorted() []*entity.User {
	out := make([]*entity.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeBookRepo struct {
	books  map[int64]*entity.Book
	nextID int64

	findErr   error
	deleteErr error
	// failDecrement simulates losing the guarded update to a concurrent
	// borrower even though the advisory read saw a copy.
	failDecrement bool
	decrements    int
	increments    int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[int64]*entity.Book)}
}

func (f *fakeBookRepo) Create(_ context.Context, book *entity.Book) error {
	for _, existing := range f.books {
		if existing.ISBN == book.ISBN {
			return errUniqueViolation("books_isbn_key")
		}
	}
	f.nextID++
	book.ID = f.nextID
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) FindByID(_ context.Context, id int64) (*entity.Book, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.books[id], nil
}

func (f *fakeBookRepo) FindByISBN(_ context.Context, isbn string) (*entity.Book, error) {
	for _, book := range f.books {
		if book.ISBN == isbn {
			return book, nil
		}
	}
	return nil, nil
}

func (f *fakeBookRepo) FindAll(_ context.Context) ([]*entity.Book, error) {
	return f.sorted(), nil
}

func (f *fakeBookRepo) SearchByTitle(_ context.Context, title string) ([]*entity.Book, error) {
	var out []*entity.Book
	for _, book := range f.sorted() {
		if strings.Contains(strings.ToLower(book.Title), strings.ToLower(title)) {
			out = append(out, book)
		}
	}
	return out, nil
}

func (f *fakeBookRepo) FindAvailable(_ context.Context) ([]*entity.Book, error) {
	var out []*entity.Book
	for _, book := range f.sorted() {
		if book.AvailableCopies > 0 {
			out = append(out, book)
		}
	}
	return out, nil
}

func (f *fakeBookRepo) Update(_ context.Context, book *entity.Book) (bool, error) {
	if _, ok := f.books[book.ID]; !ok {
		return false, nil
	}
	f.books[book.ID] = book
	return true, nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id int64) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if _, ok := f.books[id]; !ok {
		return false, nil
	}
	delete(f.books, id)
	return true, nil
}

func (f *fakeBookRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.books)), nil
}

func (f *fakeBookRepo) CountAvailable(_ context.Context) (int64, error) {
	var n int64
	for _, book := range f.books {
		if book.AvailableCopies > 0 {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookRepo) UpdateAvailableCopies(_ context.Context, id int64, copies int) (bool, error) {
	book, ok := f.books[id]
	if !ok || copies < 0 || copies > book.TotalCopies {
		return false, nil
	}
	book.AvailableCopies = copies
	return true, nil
}

func (f *fakeBookRepo) DecrementAvailable(_ context.Context, id int64) (bool, error) {
	if f.failDecrement {
		return false, nil
	}
	book, ok := f.books[id]
	if !ok || book.AvailableCopies <= 0 {
		return false, nil
	}
	book.AvailableCopies--
	f.decrements++
	return true, nil
}

func (f *fakeBookRepo) IncrementAvailable(_ context.Context, id int64) (bool, error) {
	book, ok := f.books[id]
	if !ok || book.AvailableCopies >= book.TotalCopies {
		return false, nil
	}
	book.AvailableCopies++
	f.increments++
	return true, nil
}

func (f *fakeBookRepo) sorted() []*entity.Book {
	out := make([]*entity.Book, 0, len(f.books))
	for _, book := range f.books {
		out = append(out, book)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeBorrowingRepo struct {
	borrowings map[int64]*entity.Borrowing
	nextID     int64

	createErr error
	// failStatusFor / failFineFor inject per-row failures for sweep tests.
	failStatusFor map[int64]error
	failFineFor   map[int64]error
}

func newFakeBorrowingRepo() *fakeBorrowingRepo {
	return &fakeBorrowingRepo{borrowings: make(map[int64]*entity.Borrowing)}
}

func (f *fakeBorrowingRepo) Create(_ context.Context, borrowing *entity.Borrowing) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	borrowing.ID = f.nextID
	borrowing.BorrowDate = time.Now()
	borrowing.CreatedAt = time.Now()
	borrowing.UpdatedAt = borrowing.CreatedAt
	f.borrowings[borrowing.ID] = borrowing
	return nil
}

func (f *fakeBorrowingRepo) FindByID(_ context.Context, id int64) (*entity.Borrowing, error) {
	return f.borrowings[id], nil
}

func (f *fakeBorrowingRepo) FindByUserID(_ context.Context, userID int64) ([]*entity.Borrowing, error) {
	var out []*entity.Borrowing
	for _, b := range f.sorted() {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBorrowingRepo) FindByBookID(_ context.Context, bookID int64) ([]*entity.Borrowing, error) {
	var out []*entity.Borrowing
	for _, b := range f.sorted() {
		if b.BookID == bookID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBorrowingRepo) FindActive(_ context.Context) ([]*entity.Borrowing, error) {
	var out []*entity.Borrowing
	for _, b := range f.sorted() {
		if b.ReturnDate == nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBorrowingRepo) FindOverdue(_ context.Context) ([]*entity.Borrowing, error) {
	now := time.Now()
	var out []*entity.Borrowing
	for _, b := range f.sorted() {
		if b.ReturnDate == nil && b.DueDate.Before(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBorrowingRepo) MarkReturned(_ context.Context, id int64, returnDate time.Time) (bool, error) {
	b, ok := f.borrowings[id]
	if !ok || b.ReturnDate != nil {
		return false, nil
	}
	b.ReturnDate = &returnDate
	b.Status = entity.BorrowingStatusReturned
	return true, nil
}

func (f *fakeBorrowingRepo) UpdateStatus(_ context.Context, id int64, status entity.BorrowingStatus) (bool, error) {
	if err := f.failStatusFor[id]; err != nil {
		return false, err
	}
	b, ok := f.borrowings[id]
	if !ok {
		return false, nil
	}
	b.Status = status
	return true, nil
}

func (f *fakeBorrowingRepo) UpdateFineAmount(_ context.Context, id int64, amount float64) (bool, error) {
	if err := f.failFineFor[id]; err != nil {
		return false, err
	}
	b, ok := f.borrowings[id]
	if !ok {
		return false, nil
	}
	b.FineAmount = amount
	return true, nil
}

func (f *fakeBorrowingRepo) UpdateFinePaid(_ context.Context, id int64, paid bool) (bool, error) {
	b, ok := f.borrowings[id]
	if !ok {
		return false, nil
	}
	b.FinePaid = paid
	return true, nil
}

func (f *fakeBorrowingRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.borrowings[id]; !ok {
		return false, nil
	}
	delete(f.borrowings, id)
	return true, nil
}

func (f *fakeBorrowingRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.borrowings)), nil
}

func (f *fakeBorrowingRepo) CountActiveByUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, b := range f.borrowings {
		if b.UserID == userID && b.ReturnDate == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeBorrowingRepo) sorted() []*entity.Borrowing {
	out := make([]*entity.Borrowing, 0, len(f.borrowings))
	for _, b := range f.borrowings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeAuthorRepo struct {
	authors map[int64]*entity.Author
	nextID  int64
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{authors: make(map[int64]*entity.Author)}
}

func (f *fakeAuthorRepo) Create(_ context.Context, author *entity.Author) error {
	f.nextID++
	author.ID = f.nextID
	f.authors[author.ID] = author
	return nil
}

func (f *fakeAuthorRepo) FindByID(_ context.Context, id int64) (*entity.Author, error) {
	return f.authors[id], nil
}

func (f *fakeAuthorRepo) FindAll(_ context.Context) ([]*entity.Author, error) {
	out := make([]*entity.Author, 0, len(f.authors))
	for _, a := range f.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAuthorRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.authors[id]; !ok {
		return false, nil
	}
	delete(f.authors, id)
	return true, nil
}

type fakePublisherRepo struct {
	publishers map[int64]*entity.Publisher
	nextID     int64
}

func newFakePublisherRepo() *fakePublisherRepo {
	return &fakePublisherRepo{publishers: make(map[int64]*entity.Publisher)}
}

func (f *fakePublisherRepo) Create(_ context.Context, publisher *entity.Publisher) error {
	f.nextID++
	publisher.ID = f.nextID
	f.publishers[publisher.ID] = publisher
	return nil
}

func (f *fakePublisherRepo) FindByID(_ context.Context, id int64) (*entity.Publisher, error) {
	return f.publishers[id], nil
}

func (f *fakePublisherRepo) FindAll(_ context.Context) ([]*entity.Publisher, error) {
	out := make([]*entity.Publisher, 0, len(f.publishers))
	for _, p := range f.publishers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePublisherRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.publishers[id]; !ok {
		return false, nil
	}
	delete(f.publishers, id)
	return true, nil
}

type fakeCategoryRepo struct {
	categories map[int64]*entity.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*entity.Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	f.nextID++
	category.ID = f.nextID
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id int64) (*entity.Category, error) {
	return f.categories[id], nil
}

func (f *fakeCategoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.categories[id]; !ok {
		return false, nil
	}
	delete(f.categories, id)
	return true, nil
}

// testEnv bundles the fakes behind a Repository so services can be built
// the same way production wiring builds them.
type testEnv struct {
	users      *fakeUserRepo
	books      *fakeBookRepo
	borrowings *fakeBorrowingRepo
	authors    *fakeAuthorRepo
	publishers *fakePublisherRepo
	categories *fakeCategoryRepo

	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		books:      newFakeBookRepo(),
		borrowings: newFakeBorrowingRepo(),
		authors:    newFakeAuthorRepo(),
		publishers: newFakePublisherRepo(),
		categories: newFakeCategoryRepo(),
	}
	env.repo = &repository.Repository{
		User:      env.users,
		Author:    env.authors,
		Publisher: env.publishers,
		Category:  env.categories,
		Book:      env.books,
		Borrowing: env.borrowings,
	}
	env.config = &utils.Config{
		Borrowing: utils.BorrowingConfig{
			MaxActiveBorrowings: 5,
			FinePerDay:          5000.0,
		},
	}
	env.log = zap.NewNop()
	return env
}

func (env *testEnv) addUser(status entity.UserStatus) *entity.User {
	env.users.nextID++
	user := &entity.User{
		ID:       env.users.nextID,
		Username: "member" + string(rune('0'+env.users.nextID)),
		Email:    "member@example.com",
		FullName: "Test Member",
		Role:     entity.RoleMember,
		Status:   status,
	}
	env.users.users[user.ID] = user
	return user
}

func (env *testEnv) addBook(total, available int) *entity.Book {
	env.books.nextID++
	book := &entity.Book{
		ID:              env.books.nextID,
		ISBN:            "978000000000" + string(rune('0'+env.books.nextID)),
		Title:           "Test Book",
		AuthorID:        1,
		Language:        "Indonesian",
		TotalCopies:     total,
		AvailableCopies: available,
		Status:          entity.BookStatusAvailable,
	}
	env.books.books[book.ID] = book
	return book
}

func (env *testEnv) addBorrowing(userID, bookID int64, dueDate time.Time) *entity.Borrowing {
	env.borrowings.nextID++
	borrowing := &entity.Borrowing{
		ID:         env.borrowings.nextID,
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: dueDate.Add(-14 * 24 * time.Hour),
		DueDate:    dueDate,
		Status:     entity.BorrowingStatusBorrowed,
	}
	env.borrowings.borrowings[borrowing.ID] = borrowing
	return borrowing
}
