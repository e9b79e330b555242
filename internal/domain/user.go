package domain

import (
	"context"
	"time"
)

// UserRole controls what a user may do: viewers are read-only, users manage
// assets, admins additionally manage accounts.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleUser   UserRole = "user"
	RoleViewer UserRole = "viewer"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanWrite reports whether the role may mutate assets.
func (r UserRole) CanWrite() bool {
	return r == RoleAdmin || r == RoleUser
}

// Valid returns true if r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleViewer
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
