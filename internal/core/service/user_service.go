package service

import (
	"context"
	"fmt"

	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type UserService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
}

func NewUserService(users ports.UserRepository, sessions ports.SessionStore) *UserService {
	return &UserService{users: users, sessions: sessions}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// UpdateProfile applies the non-nil fields of update. An empty update returns
// the current profile unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.PublicUser, error) {
	if update.Empty() {
		return s.GetProfile(ctx, userID)
	}
	if update.Theme != nil {
		switch *update.Theme {
		case domain.ThemeLight, domain.ThemeDark, domain.ThemeSystem:
		default:
			return nil, domain.ErrValidation
		}
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// ListUsers returns one page of accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	users, total, err := s.users.List(ctx, ports.ListUsersFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	items := make([]domain.PublicUser, len(users))
	for i, u := range users {
		items[i] = u.Public()
	}
	return &ports.UserPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// UpdateUserRole changes a user's role and revokes their refresh sessions so
// the old role cannot be carried into new tokens. Access tokens already
// issued keep their embedded role until they expire.
//
// If revocation fails the role change has still been stored and the error is
// returned. Both steps are idempotent, so the caller can retry.
func (s *UserService) UpdateUserRole(ctx context.Context, userID string, role domain.Role) (*domain.PublicUser, error) {
	if !role.Valid() {
		return nil, domain.ErrValidation
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("revoke sessions after role change: %w", err)
	}

	public := user.Public()
	return &public, nil
}
