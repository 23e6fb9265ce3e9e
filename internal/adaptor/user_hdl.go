package adaptor

import (
	"encoding/json"
	"net/http"

	"library-service/internal/dto/request"
	"library-service/internal/usecase"
	"library-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "register user")
		return
	}

	utils.ResponseCreated(w, "User registered successfully", user)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// ListUsers handles GET /api/users with optional ?name= search
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("name")

	if keyword != "" {
		users, err := h.service.SearchByName(r.Context(), keyword)
		if err != nil {
			writeServiceError(w, h.log, err, "search users")
			return
		}
		utils.ResponseSuccess(w, "Users retrieved successfully", users)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// UpdateProfile handles PUT /api/users/{id}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", user)
}

// SetStatus handles PATCH /api/users/{id}/status
func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req request.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetStatus(r.Context(), id, &req); err != nil {
		writeServiceError(w, h.log, err, "set user status")
		return
	}

	utils.ResponseSuccess(w, "User status updated successfully", nil)
}

// RecordLogin handles POST /api/users/{id}/login
func (h *UserHandler) RecordLogin(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.service.RecordLogin(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "record login")
		return
	}

	utils.ResponseSuccess(w, "Login recorded", nil)
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseID(chi.URLParam(r, "id"))
	if id == 0 {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}
