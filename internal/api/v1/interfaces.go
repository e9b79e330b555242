package v1

import (
	"context"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/store/redis"
)

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*redis.Session, *domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	CreateUser(ctx context.Context, username, password, name, email string, role domain.UserRole) (*domain.User, error)
}
