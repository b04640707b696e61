package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultIssuer     = "creative-cluster-api"
)

// TokenConfig configures the two token kinds. Each kind has its own secret and
// lifetime; the secrets must differ.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	// Leeway tolerates clock skew when checking exp/iat. Zero means none.
	Leeway time.Duration
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	UserID string           `json:"userId"`
	Email  string           `json:"email"`
	Role   domain.Role      `json:"role"`
	Kind   domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

type tokenKey struct {
	secret []byte
	ttl    time.Duration
}

// TokenService mints and verifies HS256 access and refresh tokens.
type TokenService struct {
	keys   map[domain.TokenKind]tokenKey
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewTokenService validates cfg and builds a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token service: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("token service: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	return &TokenService{
		keys: map[domain.TokenKind]tokenKey{
			domain.TokenAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			domain.TokenRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		},
		issuer: cfg.Issuer,
		leeway: cfg.Leeway,
		now:    time.Now,
	}, nil
}

// SetClock overrides the time source. Intended for tests.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TokenService) AccessTTL() time.Duration  { return s.keys[domain.TokenAccess].ttl }
func (s *TokenService) RefreshTTL() time.Duration { return s.keys[domain.TokenRefresh].ttl }

func (s *TokenService) IssueAccessToken(identity domain.Identity) (string, *domain.Claims, error) {
	return s.issue(domain.TokenAccess, identity)
}

func (s *TokenService) IssueRefreshToken(identity domain.Identity) (string, *domain.Claims, error) {
	return s.issue(domain.TokenRefresh, identity)
}

// IssueTokenPair mints both tokens for identity and returns the refresh
// token's claims so the caller can register its session.
func (s *TokenService) IssueTokenPair(identity domain.Identity) (domain.TokenPair, *domain.Claims, error) {
	access, _, err := s.IssueAccessToken(identity)
	if err != nil {
		return domain.TokenPair{}, nil, err
	}
	refresh, refreshClaims, err := s.IssueRefreshToken(identity)
	if err != nil {
		return domain.TokenPair{}, nil, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, refreshClaims, nil
}

func (s *TokenService) VerifyAccessToken(token string) (*domain.Claims, error) {
	return s.verify(domain.TokenAccess, token)
}

func (s *TokenService) VerifyRefreshToken(token string) (*domain.Claims, error) {
	return s.verify(domain.TokenRefresh, token)
}

func (s *TokenService) issue(kind domain.TokenKind, identity domain.Identity) (string, *domain.Claims, error) {
	key := s.keys[kind]
	now := s.now().UTC().Truncate(time.Second)
	claims := tokenClaims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, toDomainClaims(&claims), nil
}

func (s *TokenService) verify(kind domain.TokenKind, token string) (*domain.Claims, error) {
	key := s.keys[kind]
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return key.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return toDomainClaims(claims), nil
}

func toDomainClaims(c *tokenClaims) *domain.Claims {
	out := &domain.Claims{
		Identity: domain.Identity{UserID: c.UserID, Email: c.Email, Role: c.Role},
		Kind:     c.Kind,
		TokenID:  c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}
