package ports

import (
	"context"
	"time"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// SignUpInput carries the registration form.
type SignUpInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	SignOut(ctx context.Context, userID, refreshToken string) error
	GetMe(ctx context.Context, userID string) (*domain.PublicUser, error)
}

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints and verifies the access/refresh token pair.
type TokenIssuer interface {
	IssueTokenPair(identity domain.Identity) (domain.TokenPair, *domain.Claims, error)
	VerifyAccessToken(token string) (*domain.Claims, error)
	VerifyRefreshToken(token string) (*domain.Claims, error)
	RefreshTTL() time.Duration
}
