package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialhub/internal/auth"
	"socialhub/internal/response"
	"socialhub/internal/service"
)

// UserHandler exposes user profile endpoints.
type UserHandler struct {
	service service.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// UpdateUserRequest carries the optional profile fields.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Bio      *string `json:"bio"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} response.Envelope{data=[]model.UserProfile}
// @Failure 500 {object} response.Envelope
// @Router /user [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Users fetched successfully", users)
}

// GetUser godoc
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope{data=model.UserProfile}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User fetched successfully", user)
}

// UpdateUser godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} response.Envelope{data=model.User}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /user/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), auth.PrincipalFrom(c), id, service.UserPatch{
		Username: req.Username,
		Name:     req.Name,
		Bio:      req.Bio,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete own account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope{data=model.User}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.service.DeleteUser(c.Request().Context(), auth.PrincipalFrom(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User deleted successfully", user)
}
