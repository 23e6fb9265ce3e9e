package entity

import "time"

type Author struct {
	ID        int64     `db:"author_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
