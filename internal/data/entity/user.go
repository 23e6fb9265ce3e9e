package entity

import "time"

type UserRole string

const (
	RoleMember    UserRole = "member"
	RoleLibrarian UserRole = "librarian"
	RoleAdmin     UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID               int64      `db:"user_id"`
	Username         string     `db:"username"`
	Email            string     `db:"email"`
	FullName         string     `db:"full_name"`
	Phone            *string    `db:"phone"`
	Role             UserRole   `db:"role"`
	Status           UserStatus `db:"status"`
	RegistrationDate time.Time  `db:"registration_date"`
	LastLogin        *time.Time `db:"last_login"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
