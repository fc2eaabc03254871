package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"userhub/internal/model"
	"userhub/internal/service"
)

// UserHandler bundles HTTP handlers for the user resource.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest represents a user update request. The full public shape is
// accepted for compatibility, but only first_name and email are applied; uid
// and is_admin in the body are ignored.
type UpdateUserRequest struct {
	UID       string `json:"uid"`
	FirstName string `json:"first_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	IsAdmin   bool   `json:"is_admin"`
}

// ListUsers godoc
// @Summary List all users
// @Description Returns every local record in arbitrary order. Unpaginated.
// @Tags users
// @Produce json
// @Success 200 {array} model.PublicUser
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.NewPublicUsers(users))
}

// GetUser godoc
// @Summary Get a user by uid
// @Tags users
// @Produce json
// @Param uid path string true "Provider-assigned user id"
// @Success 200 {object} model.PublicUser
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{uid} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.NewPublicUser(user))
}

// UpdateUser godoc
// @Summary Update a user's name and email
// @Tags users
// @Accept json
// @Produce json
// @Param uid path string true "Provider-assigned user id"
// @Param request body UpdateUserRequest true "User payload (only first_name and email are applied)"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/{uid} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Update(c.Request().Context(), c.Param("uid"), req.FirstName, req.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.NewPublicUser(user))
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Removes the local record, then best-effort deletes the external identity.
// @Tags users
// @Produce json
// @Param uid path string true "Provider-assigned user id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{uid} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	uid := c.Param("uid")
	if err := h.svc.Delete(c.Request().Context(), uid); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("User %s has been deleted", uid),
	})
}
