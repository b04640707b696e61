package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/creative-cluster/studio-api/internal/api/metrics"
	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp registers a new account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      201   {object}  envelope{data=domain.AuthResult}
// @Failure      400   {object}  ErrorBody
// @Failure      500   {object}  ErrorBody
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	recordAttempt("sign_up", err)
	if err != nil {
		return err
	}

	return success(c, http.StatusCreated, result)
}

// SignIn exchanges credentials for a token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  envelope{data=domain.AuthResult}
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	recordAttempt("sign_in", err)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, result)
}

// Refresh rotates a refresh token into a new pair. The presented token is
// consumed and cannot be used again.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  envelope{data=domain.AuthResult}
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	recordAttempt("refresh", err)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, result)
}

// SignOut revokes the given refresh token. Access tokens stay valid until
// they expire.
//
// @Summary      Sign out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      signOutRequest  false  "Refresh token to revoke"
// @Success      200   {object}  envelope
// @Failure      401   {object}  ErrorBody
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req signOutRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}

	err = h.authService.SignOut(c.Request().Context(), claims.UserID, req.RefreshToken)
	recordAttempt("sign_out", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Status: "success", Message: "Signed out successfully"})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=domain.PublicUser}
// @Failure      401  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetMe(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, user)
}

func recordAttempt(operation string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrValidation), domain.IsConflict(err):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}
