package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/creative-cluster/studio-api/internal/api/middleware"
	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// currentClaims returns the caller identity placed by middleware.Authenticate.
// Routes that reach a handler without it are misconfigured, so the request is
// rejected rather than served anonymously.
func currentClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, domain.ErrAuthenticationRequired
	}
	return claims, nil
}

// bind decodes the request into req and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return &ValidationError{Message: "invalid request body"}
		}
		return err
	}
	return c.Validate(req)
}

func success(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Status: "success", Data: data})
}
