package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/creative-cluster/studio-api/internal/api/metrics"
	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// ClaimsKey is the echo context key holding the *domain.Claims of the caller.
const ClaimsKey = "claims"

type claimsCtxKey struct{}

// AccessVerifier verifies bearer access tokens.
type AccessVerifier interface {
	VerifyAccessToken(token string) (*domain.Claims, error)
}

// Authenticate requires a valid access token in the Authorization header.
// Verified claims are stored on the echo context under ClaimsKey and on the
// request context, see ClaimsFromContext.
func Authenticate(verifier AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return domain.ErrTokenExpired
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrTokenInvalid
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(ClaimsKey, claims)
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), claimsCtxKey{}, claims)))

			return next(c)
		}
	}
}

// Claims returns the caller's claims set by Authenticate.
func Claims(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*domain.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
