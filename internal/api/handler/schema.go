package handler

import "github.com/creative-cluster/studio-api/internal/core/domain"

type signUpRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Password  string `json:"password" validate:"required,min=8,maxbytes=72"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// signOutRequest body is optional; a refresh token, when sent, has its
// session revoked.
type signOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
	Locale    *string `json:"locale" validate:"omitempty,min=2,max=10"`
	Theme     *string `json:"theme" validate:"omitempty,oneof=LIGHT DARK SYSTEM"`
}

func (r updateProfileRequest) toDomain() domain.ProfileUpdate {
	update := domain.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Locale:    r.Locale,
	}
	if r.Theme != nil {
		theme := domain.Theme(*r.Theme)
		update.Theme = &theme
	}
	return update
}

type listUsersRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type updateRoleRequest struct {
	UserID string `param:"userId" json:"-" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=GUEST CUSTOMER CREATOR ADMIN"`
}

// envelope is the success body shared by every endpoint.
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type userListResponse struct {
	Users      []domain.PublicUser `json:"users"`
	Pagination pagination          `json:"pagination"`
}

// ErrorBody is the error envelope rendered by the central error handler.
type ErrorBody struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Details []FieldViolation `json:"details,omitempty"`
}
