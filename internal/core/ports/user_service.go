package ports

import (
	"context"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// UserPage is a page of the admin user listing.
type UserPage struct {
	Items      []domain.PublicUser
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers profile self-service and admin user management.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.PublicUser, error)
	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) (*domain.PublicUser, error)
}
