package domain

import "time"

// Role is the permission tier carried by a user and embedded in its tokens.
type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleCustomer Role = "CUSTOMER"
	RoleCreator  Role = "CREATOR"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleCustomer, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// Theme is the UI theme preference stored on the profile.
type Theme string

const (
	ThemeLight  Theme = "LIGHT"
	ThemeDark   Theme = "DARK"
	ThemeSystem Theme = "SYSTEM"
)

const DefaultLocale = "ru"

// User models an account of the studio platform.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	FirstName    string
	LastName     string
	Avatar       string
	Locale       string
	Theme        Theme
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      Role      `json:"role"`
	Locale    string    `json:"locale,omitempty"`
	Theme     Theme     `json:"theme,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-safe view of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Locale:    u.Locale,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Locale    *string
	Theme     *Theme
}

// Empty reports whether the update carries no changes.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Locale == nil && p.Theme == nil
}
