package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/store/redis"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
)

// SessionStore persists login sessions. Implemented by redis.Sessions.
type SessionStore interface {
	Create(ctx context.Context, u *domain.User) (*redis.Session, error)
	Get(ctx context.Context, id string) (*redis.Session, error)
	Delete(ctx context.Context, id string) error
}

// Service provides login, logout and session validation over cookie-backed
// server-side sessions.
type Service struct {
	users    domain.UserRepository
	sessions SessionStore
}

func NewService(users domain.UserRepository, sessions SessionStore) *Service {
	return &Service{users: users, sessions: sessions}
}

// Login validates username/password and mints a session.
func (s *Service) Login(ctx context.Context, username, password string) (*redis.Session, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Hide whether the account exists.
		return nil, nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.Login: %w", err)
	}

	return sess, user, nil
}

// Logout invalidates the session. Unknown session IDs are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	return nil
}

// Authenticate resolves a session ID from the login cookie into the session
// state. Missing or expired sessions report domain.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, sessionID string) (*redis.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("auth.Authenticate: %w", domain.ErrUnauthorized)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("auth.Authenticate: %w", err)
	}

	return sess, nil
}

// CreateUser registers a new account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, username, password, name, email string, role domain.UserRole) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("auth.CreateUser: %w", ErrUserAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("auth.CreateUser: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.CreateUser: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Email:        email,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth.CreateUser: %w", err)
	}

	return user, nil
}

// EnsureAdmin bootstraps the initial admin account on first start. It is a
// no-op when the username already exists.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("auth.EnsureAdmin: %w", err)
	}

	if _, err := s.CreateUser(ctx, username, password, "Administrator", "", domain.RoleAdmin); err != nil {
		return fmt.Errorf("auth.EnsureAdmin: %w", err)
	}

	log.Info().Str("username", username).Msg("bootstrapped admin account")

	return nil
}
