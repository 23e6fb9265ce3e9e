package repository

import (
	"context"
	"fmt"

	"library-service/internal/data/entity"
	"library-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *entity.Author) error
	FindByID(ctx context.Context, id int64) (*entity.Author, error)
	FindAll(ctx context.Context) ([]*entity.Author, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type authorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuthorRepository(db database.PgxIface, log *zap.Logger) AuthorRepository {
	return &authorRepository{
		db:  db,
		log: log.With(zap.String("repository", "author")),
	}
}

func (r *authorRepository) Create(ctx context.Context, author *entity.Author) error {
	query := `
		INSERT INTO authors (name)
		VALUES ($1)
		RETURNING author_id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, author.Name).Scan(
		&author.ID,
		&author.CreatedAt,
		&author.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create author",
			zap.Error(err),
			zap.String("name", author.Name),
		)
		return fmt.Errorf("create author %s: %w", author.Name, err)
	}

	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id int64) (*entity.Author, error) {
	query := `SELECT author_id, name, created_at, updated_at FROM authors WHERE author_id = $1`

	var author entity.Author
	err := r.db.QueryRow(ctx, query, id).Scan(
		&author.ID,
		&author.Name,
		&author.CreatedAt,
		&author.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find author by ID",
			zap.Error(err),
			zap.Int64("author_id", id),
		)
		return nil, fmt.Errorf("find author by ID %d: %w", id, err)
	}

	return &author, nil
}

func (r *authorRepository) FindAll(ctx context.Context) ([]*entity.Author, error) {
	query := `SELECT author_id, name, created_at, updated_at FROM authors ORDER BY author_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all authors", zap.Error(err))
		return nil, fmt.Errorf("find all authors: %w", err)
	}
	defer rows.Close()

	var authors []*entity.Author
	for rows.Next() {
		var author entity.Author
		if err := rows.Scan(&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt); err != nil {
			r.log.Error("Failed to scan author row", zap.Error(err))
			return nil, fmt.Errorf("scan author row: %w", err)
		}
		authors = append(authors, &author)
	}

	return authors, rows.Err()
}

func (r *authorRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM authors WHERE author_id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete author",
			zap.Error(err),
			zap.Int64("author_id", id),
		)
		return false, fmt.Errorf("delete author %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
