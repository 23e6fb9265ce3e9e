package response

import (
	"time"

	"library-service/internal/data/entity"
)

type UserResponse struct {
	ID               int64             `json:"id"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	FullName         string            `json:"full_name"`
	Phone            *string           `json:"phone,omitempty"`
	Role             entity.UserRole   `json:"role"`
	Status           entity.UserStatus `json:"status"`
	RegistrationDate time.Time         `json:"registration_date"`
	LastLogin        *time.Time        `json:"last_login,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		FullName:         user.FullName,
		Phone:            user.Phone,
		Role:             user.Role,
		Status:           user.Status,
		RegistrationDate: user.RegistrationDate,
		LastLogin:        user.LastLogin,
		CreatedAt:        user.CreatedAt,
	}
}
