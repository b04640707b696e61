package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/creative-cluster/studio-api/internal/api/handler"
	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// NewHTTPErrorHandler renders every error returned by handlers and middleware
// as the {"status":"error"} envelope. Unknown errors are logged and reported
// as a generic 500 so internals never reach the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorBody) {
	body := handler.ErrorBody{Status: "error"}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		body.Message = ve.Message
		body.Details = ve.Fields
		return http.StatusBadRequest, body
	}

	// Echo's own errors: unknown route, method not allowed, body too large,
	// rate limited.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		body.Message = fmt.Sprintf("%v", he.Message)
		return he.Code, body
	}

	code, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		code, msg = http.StatusBadRequest, domain.ErrValidation.Error()
	case errors.Is(err, domain.ErrEmailTaken):
		code, msg = http.StatusBadRequest, domain.ErrEmailTaken.Error()
	case errors.Is(err, domain.ErrUsernameTaken):
		code, msg = http.StatusBadRequest, domain.ErrUsernameTaken.Error()
	case errors.Is(err, domain.ErrUserExists):
		code, msg = http.StatusBadRequest, domain.ErrUserExists.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrMissingToken):
		code, msg = http.StatusUnauthorized, domain.ErrMissingToken.Error()
	case errors.Is(err, domain.ErrTokenExpired):
		code, msg = http.StatusUnauthorized, "access token has expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		code, msg = http.StatusUnauthorized, "invalid access token"
	case errors.Is(err, domain.ErrAuthenticationRequired):
		code, msg = http.StatusUnauthorized, domain.ErrAuthenticationRequired.Error()
	case errors.Is(err, domain.ErrForbidden):
		code, msg = http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		code, msg = http.StatusNotFound, domain.ErrUserNotFound.Error()
	default:
		log.Error().
			Err(err).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
	}

	body.Message = msg
	return code, body
}
