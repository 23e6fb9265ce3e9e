package request

type RegisterUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email,max=100"`
	FullName string  `json:"full_name" validate:"required,min=3,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Role     string  `json:"role" validate:"omitempty,oneof=member librarian admin"`
}

type UpdateProfileRequest struct {
	Email    string  `json:"email" validate:"required,email,max=100"`
	FullName string  `json:"full_name" validate:"required,min=3,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}
