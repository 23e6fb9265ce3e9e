package repository

import (
	"context"
	"fmt"

	"library-service/internal/data/entity"
	"library-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PublisherRepository interface {
	Create(ctx context.Context, publisher *entity.Publisher) error
	FindByID(ctx context.Context, id int64) (*entity.Publisher, error)
	FindAll(ctx context.Context) ([]*entity.Publisher, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type publisherRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPublisherRepository(db database.PgxIface, log *zap.Logger) PublisherRepository {
	return &publisherRepository{
		db:  db,
		log: log.With(zap.String("repository", "publisher")),
	}
}

func (r *publisherRepository) Create(ctx context.Context, publisher *entity.Publisher) error {
	query := `
		INSERT INTO publishers (name)
		VALUES ($1)
		RETURNING publisher_id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, publisher.Name).Scan(
		&publisher.ID,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create publisher",
			zap.Error(err),
			zap.String("name", publisher.Name),
		)
		return fmt.Errorf("create publisher %s: %w", publisher.Name, err)
	}

	return nil
}

func (r *publisherRepository) FindByID(ctx context.Context, id int64) (*entity.Publisher, error) {
	query := `SELECT publisher_id, name, created_at, updated_at FROM publishers WHERE publisher_id = $1`

	var publisher entity.Publisher
	err := r.db.QueryRow(ctx, query, id).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find publisher by ID",
			zap.Error(err),
			zap.Int64("publisher_id", id),
		)
		return nil, fmt.Errorf("find publisher by ID %d: %w", id, err)
	}

	return &publisher, nil
}

func (r *publisherRepository) FindAll(ctx context.Context) ([]*entity.Publisher, error) {
	query := `SELECT publisher_id, name, created_at, updated_at FROM publishers ORDER BY publisher_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all publishers", zap.Error(err))
		return nil, fmt.Errorf("find all publishers: %w", err)
	}
	defer rows.Close()

	var publishers []*entity.Publisher
	for rows.Next() {
		var publisher entity.Publisher
		if err := rows.Scan(&publisher.ID, &publisher.Name, &publisher.CreatedAt, &publisher.UpdatedAt); err != nil {
			r.log.Error("Failed to scan publisher row", zap.Error(err))
			return nil, fmt.Errorf("scan publisher row: %w", err)
		}
		publishers = append(publishers, &publisher)
	}

	return publishers, rows.Err()
}

func (r *publisherRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM publishers WHERE publisher_id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete publisher",
			zap.Error(err),
			zap.Int64("publisher_id", id),
		)
		return false, fmt.Errorf("delete publisher %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
