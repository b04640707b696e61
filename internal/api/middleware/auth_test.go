package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/infrastructure/security"
)

func newTokens(t *testing.T) *security.TokenService {
	t.Helper()
	svc, err := security.NewTokenService(security.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return svc
}

var alice = domain.Identity{UserID: "u1", Email: "alice@example.com", Role: domain.RoleCustomer}

func run(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(next)(c)
	return rec, err
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := newTokens(t)
	access, _, err := tokens.IssueAccessToken(alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called := false
	rec, err := run(t, Authenticate(tokens), "Bearer "+access, func(c echo.Context) error {
		called = true
		claims, ok := Claims(c)
		if !ok {
			t.Fatalf("claims not set on echo context")
		}
		if claims.UserID != "u1" || claims.Role != domain.RoleCustomer {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if _, ok := ClaimsFromContext(c.Request().Context()); !ok {
			t.Fatalf("claims not set on request context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tokens := newTokens(t)
	_, refresh, err := issuePair(tokens)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingToken},
		{"wrong scheme", "Basic dXNlcjpwYXNz", domain.ErrMissingToken},
		{"empty bearer", "Bearer ", domain.ErrMissingToken},
		{"garbage", "Bearer not.a.jwt", domain.ErrTokenInvalid},
		{"refresh token", "Bearer " + refresh, domain.ErrTokenInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, Authenticate(tokens), tc.header, func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tokens := newTokens(t)
	issuedAt := time.Now().Add(-time.Hour)
	tokens.SetClock(func() time.Time { return issuedAt })
	access, _, err := tokens.IssueAccessToken(alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tokens.SetClock(time.Now)

	_, err = run(t, Authenticate(tokens), "Bearer "+access, func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthenticate_LowercaseScheme(t *testing.T) {
	tokens := newTokens(t)
	access, _, _ := tokens.IssueAccessToken(alice)

	_, err := run(t, Authenticate(tokens), "bearer "+access, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func issuePair(tokens *security.TokenService) (string, string, error) {
	pair, _, err := tokens.IssueTokenPair(alice)
	return pair.AccessToken, pair.RefreshToken, err
}
