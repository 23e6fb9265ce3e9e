package usecase

import (
	"context"
	"fmt"

	"library-service/internal/data/entity"
	"library-service/internal/data/repository"
	"library-service/internal/dto/request"
	"library-service/internal/dto/response"
	"library-service/pkg/database"
	"library-service/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	Register(ctx context.Context, req *request.RegisterUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, userID int64) (*response.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*response.UserResponse, error)
	ListUsers(ctx context.Context) ([]response.UserResponse, error)
	SearchByName(ctx context.Context, keyword string) ([]response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	RecordLogin(ctx context.Context, userID int64) error
	SetStatus(ctx context.Context, userID int64, req *request.UpdateUserStatusRequest) error
	DeleteUser(ctx context.Context, userID int64) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (s *userService) Register(ctx context.Context, req *request.RegisterUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	role := entity.UserRole(req.Role)
	if req.Role == "" {
		role = entity.RoleMember
	}

	user := &entity.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     role,
		Status:   entity.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique constraints are the authority on duplicates; there is
		// no advisory pre-check to race against.
		if database.IsUniqueViolation(err) {
			s.log.Warn("Register rejected, duplicate identity",
				zap.String("username", req.Username),
				zap.String("constraint", database.ConstraintName(err)),
			)
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]response.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]response.UserResponse, len(users))
	for i, user := range users {
		responses[i] = response.UserToResponse(user)
	}

	return responses, nil
}

func (s *userService) SearchByName(ctx context.Context, keyword string) ([]response.UserResponse, error) {
	users, err := s.userRepo.SearchByName(ctx, keyword)
	if err != nil {
		return nil, err
	}

	responses := make([]response.UserResponse, len(users))
	for i, user := range users {
		responses[i] = response.UserToResponse(user)
	}

	return responses, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.Phone = req.Phone

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already taken", ErrConflict)
		}
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	s.log.Info("Profile updated", zap.Int64("user_id", userID))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) RecordLogin(ctx context.Context, userID int64) error {
	updated, err := s.userRepo.UpdateLastLogin(ctx, userID)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

func (s *userService) SetStatus(ctx context.Context, userID int64, req *request.UpdateUserStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	user.Status = entity.UserStatus(req.Status)
	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	s.log.Info("User status changed",
		zap.Int64("user_id", userID),
		zap.String("status", req.Status),
	)
	return nil
}

// DeleteUser removes the user; the store cascades all of the user's
// borrowings, active ones included.
func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}
