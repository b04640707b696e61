package ports

import (
	"context"
	"time"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// ListUsersFilter carries paging for the admin user listing.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int
}

// UserRepository defines persistence operations for user accounts.
// Implementations enforce email and username uniqueness at the storage layer
// and report violations as domain.ErrUserExists.
type UserRepository interface {
	// FindByEmailOrUsername returns the first user whose email or username
	// matches, or domain.ErrUserNotFound.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}

// SessionStore tracks which refresh tokens are still redeemable.
type SessionStore interface {
	Register(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	// Consume atomically removes the session and returns its owner, or
	// domain.ErrSessionNotFound when it was never registered, already used or expired.
	Consume(ctx context.Context, tokenID string) (string, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
}
