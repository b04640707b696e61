package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/creative-cluster/studio-api/internal/core/ports"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=domain.PublicUser}
// @Failure      401  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Router       /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

// UpdateProfile changes only the fields present in the body.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=domain.PublicUser}
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Router       /users/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), claims.UserID, req.toDomain())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}
