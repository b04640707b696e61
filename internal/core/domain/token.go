package domain

import "time"

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Identity is the claim set minted into a token and attached to an
// authenticated request.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Claims is a verified token payload.
type Claims struct {
	Identity
	Kind      TokenKind
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is returned by every operation that authenticates a user.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the outcome of sign-up, sign-in and refresh.
type AuthResult struct {
	User   PublicUser `json:"user"`
	Tokens TokenPair  `json:"tokens"`
}

// IdentityOf builds the token claim set for u.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
