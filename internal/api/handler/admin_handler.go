package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/creative-cluster/studio-api/internal/api/metrics"
	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/core/ports"
)

// AdminHandler serves user management. Routes must be gated on the ADMIN role.
type AdminHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewAdminHandler(users ports.UserService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

// ListUsers
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number, from 1"
// @Param        limit  query     int  false  "Page size, at most 100"
// @Success      200    {object}  envelope{data=userListResponse}
// @Failure      400    {object}  ErrorBody
// @Failure      401    {object}  ErrorBody
// @Failure      403    {object}  ErrorBody
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var req listUsersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.users.ListUsers(c.Request().Context(), req.Page, req.Limit)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, userListResponse{
		Users: page.Items,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// UpdateUserRole assigns a new role. The user's refresh sessions are revoked;
// access tokens already issued keep the old role until they expire.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User id"
// @Param        body    body      updateRoleRequest  true  "New role"
// @Success      200     {object}  envelope{data=domain.PublicUser}
// @Failure      400     {object}  ErrorBody
// @Failure      403     {object}  ErrorBody
// @Failure      404     {object}  ErrorBody
// @Router       /admin/users/{userId}/role [patch]
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role := domain.Role(req.Role)
	user, err := h.users.UpdateUserRole(c.Request().Context(), req.UserID, role)
	if err != nil {
		return err
	}

	metrics.RoleChangesTotal.WithLabelValues(string(role)).Inc()
	h.log.Info().
		Str("admin_id", claims.UserID).
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("user role changed")

	return success(c, http.StatusOK, user)
}
