package entity

import "time"

type Publisher struct {
	ID        int64     `db:"publisher_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
