//go:build integration
// +build integration

package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"library-service/internal/data/entity"
	"library-service/internal/data/repository"
	"library-service/internal/usecase"
	"library-service/migrations"
	"library-service/pkg/database"
	"library-service/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupRepository starts a throwaway PostgreSQL container, applies the
// embedded migrations and returns a wired Repository. The raw handle is
// returned too so tests can shape rows the repositories will not, such as
// backdating a due date.
func setupRepository(t *testing.T) (*repository.Repository, *database.DB) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("library_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.NewFromPool(pool)
	require.NoError(t, migrations.Apply(ctx, db))

	return repository.NewRepository(db, zap.NewNop()), db
}

// backdate shifts a borrowing into the past so it shows up as overdue
// without tripping the due_date > borrow_date check.
func backdate(t *testing.T, db *database.DB, borrowingID int64, overdueBy time.Duration) {
	t.Helper()
	dueDate := time.Now().Add(-overdueBy)
	_, err := db.Exec(context.Background(),
		`UPDATE borrowings SET borrow_date = $2, due_date = $3 WHERE borrowing_id = $1`,
		borrowingID, dueDate.Add(-14*24*time.Hour), dueDate,
	)
	require.NoError(t, err)
}

func seedUser(t *testing.T, repo *repository.Repository, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Role:     entity.RoleMember,
		Status:   entity.UserStatusActive,
	}
	require.NoError(t, repo.User.Create(context.Background(), user))
	return user
}

func seedBook(t *testing.T, repo *repository.Repository, isbn string, copies int) *entity.Book {
	t.Helper()
	ctx := context.Background()

	author := &entity.Author{Name: "Seed Author"}
	require.NoError(t, repo.Author.Create(ctx, author))

	book := &entity.Book{
		ISBN:            isbn,
		Title:           "Seed Book",
		AuthorID:        author.ID,
		Language:        "Indonesian",
		TotalCopies:     copies,
		AvailableCopies: copies,
		Status:          entity.BookStatusAvailable,
	}
	require.NoError(t, repo.Book.Create(ctx, book))
	return book
}

func seedBorrowing(t *testing.T, repo *repository.Repository, userID, bookID int64) *entity.Borrowing {
	t.Helper()
	borrowing := &entity.Borrowing{
		UserID:  userID,
		BookID:  bookID,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
		Status:  entity.BorrowingStatusBorrowed,
	}
	require.NoError(t, repo.Borrowing.Create(context.Background(), borrowing))
	return borrowing
}

func TestUserRepository_CRUD(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	user := seedUser(t, repo, "budi")
	assert.NotZero(t, user.ID, "RETURNING must populate the generated id")
	assert.False(t, user.RegistrationDate.IsZero())
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "budi", found.Username)
	assert.Equal(t, entity.RoleMember, found.Role)

	byName, err := repo.User.FindByUsername(ctx, "budi")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := repo.User.FindByID(ctx, 99999)
	require.NoError(t, err, "a miss is not an error")
	assert.Nil(t, missing)

	found.FullName = "Budi Santoso"
	updated, err := repo.User.Update(ctx, found)
	require.NoError(t, err)
	assert.True(t, updated)

	again, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", again.FullName)
	assert.True(t, again.UpdatedAt.After(again.CreatedAt) || again.UpdatedAt.Equal(again.CreatedAt),
		"updated_at trigger must refresh on update")

	deleted, err := repo.User.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.User.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports not found")
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	seedUser(t, repo, "budi")

	dup := &entity.User{
		Username: "budi",
		Email:    "other@example.com",
		FullName: "Other",
		Role:     entity.RoleMember,
		Status:   entity.UserStatusActive,
	}
	err := repo.User.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.Equal(t, "users_username_key", database.ConstraintName(err))
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	user := seedUser(t, repo, "budi")
	require.Nil(t, user.LastLogin)

	updated, err := repo.User.UpdateLastLogin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated)

	found, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastLogin)
}

func TestBookRepository_GuardedCounters(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	book := seedBook(t, repo, "9780000000001", 2)

	// Drain the counter; the guard stops it at zero.
	for i := 0; i < 2; i++ {
		ok, err := repo.Book.DecrementAvailable(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := repo.Book.DecrementAvailable(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok, "decrement below zero must be refused")

	// Refill; the guard stops it at total_copies.
	for i := 0; i < 2; i++ {
		ok, err := repo.Book.IncrementAvailable(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err = repo.Book.IncrementAvailable(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok, "increment above total must be refused")

	found, err := repo.Book.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.AvailableCopies)
}

func TestBookRepository_ConcurrentDecrement(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	const copies = 3
	const attempts = 10

	book := seedBook(t, repo, "9780000000001", copies)

	// All attempts race for the same counter; the guarded update is the
	// only arbiter, so exactly copies of them may win.
	results := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Book.DecrementAvailable(ctx, book.ID)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for ok := range results {
		if ok {
			won++
		}
	}
	assert.Equal(t, copies, won, "exactly one decrement per copy may succeed")

	found, err := repo.Book.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.AvailableCopies)
}

func TestBorrowingService_ConcurrentBorrow(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()

	const copies = 3
	const attempts = 10

	book := seedBook(t, repo, "9780000000001", copies)

	users := make([]*entity.User, attempts)
	for i := range users {
		users[i] = seedUser(t, repo, fmt.Sprintf("reader%02d", i))
	}

	config := &utils.Config{
		Borrowing: utils.BorrowingConfig{MaxActiveBorrowings: 5, FinePerDay: 5000.0},
	}
	service := usecase.NewBorrowingService(repo, config, zap.NewNop())

	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := service.BorrowBook(ctx, userID, book.ID, 14)
			errs <- err
		}(users[i].ID)
	}
	wg.Wait()
	close(errs)

	borrowed := 0
	for err := range errs {
		if err == nil {
			borrowed++
			continue
		}
		assert.ErrorIs(t, err, usecase.ErrConflict, "losers must see a conflict, not a stray failure")
	}
	assert.Equal(t, copies, borrowed, "exactly one borrowing per copy may succeed")

	found, err := repo.Book.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.AvailableCopies)

	var active int64
	err = db.QueryRow(ctx,
		`SELECT COUNT(*) FROM borrowings WHERE book_id = $1 AND return_date IS NULL`,
		book.ID,
	).Scan(&active)
	require.NoError(t, err)
	assert.Equal(t, int64(copies), active)
}

func TestBookRepository_FindAvailable(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	seedBook(t, repo, "9780000000001", 1)
	empty := seedBook(t, repo, "9780000000002", 1)
	_, err := repo.Book.DecrementAvailable(ctx, empty.ID)
	require.NoError(t, err)

	available, err := repo.Book.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "9780000000001", available[0].ISBN)

	count, err := repo.Book.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBorrowingRepository_Lifecycle(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	user := seedUser(t, repo, "budi")
	book := seedBook(t, repo, "9780000000001", 1)

	borrowing := seedBorrowing(t, repo, user.ID, book.ID)
	assert.NotZero(t, borrowing.ID)
	assert.False(t, borrowing.BorrowDate.IsZero())
	assert.Zero(t, borrowing.FineAmount)
	assert.False(t, borrowing.FinePaid)

	active, err := repo.Borrowing.CountActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	ok, err := repo.Borrowing.MarkReturned(ctx, borrowing.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Borrowing.MarkReturned(ctx, borrowing.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "the return_date guard must refuse a second return")

	found, err := repo.Borrowing.FindByID(ctx, borrowing.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ReturnDate)
	assert.Equal(t, entity.BorrowingStatusReturned, found.Status)

	active, err = repo.Borrowing.CountActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, active)
}

func TestBorrowingRepository_FindOverdue(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()

	user := seedUser(t, repo, "budi")
	book := seedBook(t, repo, "9780000000001", 3)

	overdue := seedBorrowing(t, repo, user.ID, book.ID)
	seedBorrowing(t, repo, user.ID, book.ID) // still within its due date

	returned := seedBorrowing(t, repo, user.ID, book.ID)
	backdate(t, db, overdue.ID, 48*time.Hour)
	backdate(t, db, returned.ID, 48*time.Hour)
	ok, err := repo.Borrowing.MarkReturned(ctx, returned.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := repo.Borrowing.FindOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1, "returned and not-yet-due rows stay out of the sweep")
	assert.Equal(t, overdue.ID, rows[0].ID)
}

func TestReferentialActions(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	user := seedUser(t, repo, "budi")
	book := seedBook(t, repo, "9780000000001", 1)
	borrowing := seedBorrowing(t, repo, user.ID, book.ID)

	// The RESTRICT key blocks deleting a book that borrowings reference.
	_, err := repo.Book.Delete(ctx, book.ID)
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))

	// Deleting the user cascades its borrowings.
	deleted, err := repo.User.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.Borrowing.FindByID(ctx, borrowing.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// With the borrowing gone the book delete goes through.
	ok, err := repo.Book.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBorrowingRepository_FineUpdates(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	user := seedUser(t, repo, "budi")
	book := seedBook(t, repo, "9780000000001", 1)
	borrowing := seedBorrowing(t, repo, user.ID, book.ID)

	ok, err := repo.Borrowing.UpdateStatus(ctx, borrowing.ID, entity.BorrowingStatusOverdue)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Borrowing.UpdateFineAmount(ctx, borrowing.ID, 15000)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Borrowing.UpdateFinePaid(ctx, borrowing.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.Borrowing.FindByID(ctx, borrowing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BorrowingStatusOverdue, found.Status)
	assert.Equal(t, 15000.0, found.FineAmount)
	assert.True(t, found.FinePaid)
}
