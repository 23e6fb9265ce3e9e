package usecase

import (
	"library-service/internal/data/repository"
	"library-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	User      UserService
	Catalog   CatalogService
	Borrowing BorrowingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		User:      NewUserService(repo.User, log),
		Catalog:   NewCatalogService(repo, log),
		Borrowing: NewBorrowingService(repo, config, log),
	}
}
