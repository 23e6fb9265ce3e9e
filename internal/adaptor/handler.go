package adaptor

import (
	"errors"
	"net/http"

	"library-service/internal/usecase"
	"library-service/pkg/database"
	"library-service/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	User      *UserHandler
	Book      *BookHandler
	Borrowing *BorrowingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:      NewUserHandler(service.User, log),
		Book:      NewBookHandler(service.Catalog, log),
		Borrowing: NewBorrowingHandler(service.Borrowing, log),
	}
}

// writeServiceError maps the business failure taxonomy onto HTTP status
// codes. Store constraint violations that no service translated still get a
// conflict response; anything else is an internal error.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidArgument):
		log.Warn(operation+" failed - invalid argument", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case database.IsConstraintViolation(err):
		log.Warn(operation+" failed - constraint violation",
			zap.Error(err),
			zap.String("constraint", database.ConstraintName(err)),
		)
		utils.ResponseConflict(w, "Request conflicts with existing data")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
