package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/core/ports"
)

// dummyPassword is hashed once at construction so that sign-in attempts for
// unknown emails spend the same bcrypt time as attempts with a wrong password.
const dummyPassword = "studio-timing-equaliser"

// AuthService implements sign-up, sign-in, token refresh and sign-out.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionStore
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	logger    zerolog.Logger
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	logger zerolog.Logger,
) *AuthService {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to prepare dummy password hash")
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// SignUp registers a CUSTOMER account and signs it in. Email and username
// uniqueness is checked with a single lookup; the storage layer's unique
// indexes catch any race that slips past it.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.ErrUsernameTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("sign up: lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Locale:       domain.DefaultLocale,
		Theme:        domain.ThemeSystem,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if domain.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("sign up: create user: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return s.startSession(ctx, created)
}

// SignIn checks the credentials and issues a fresh token pair. Unknown email
// and wrong password produce the same error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// RefreshToken redeems a refresh token for a new pair. The presented token's
// session is consumed, so each refresh token can be used once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("refresh token rejected")
		return nil, domain.ErrInvalidCredentials
	}

	owner, err := s.sessions.Consume(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn().Str("user_id", claims.UserID).Str("token_id", claims.TokenID).Msg("refresh token reused or revoked")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("refresh token: consume session: %w", err)
	}
	if owner != claims.UserID {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("refresh token: lookup user: %w", err)
	}

	return s.startSession(ctx, user)
}

// SignOut revokes the given refresh token when it belongs to userID. Unknown
// or foreign tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil || claims.UserID != userID {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.TokenID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (s *AuthService) GetMe(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	pair, refreshClaims, err := s.tokens.IssueTokenPair(domain.IdentityOf(user))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.sessions.Register(ctx, user.ID, refreshClaims.TokenID, s.tokens.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	return &domain.AuthResult{User: user.Public(), Tokens: pair}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
