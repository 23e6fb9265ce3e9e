package entity

import "time"

type Category struct {
	ID        int64     `db:"category_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
