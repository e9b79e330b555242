package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/auth"
	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/server/middleware"
)

type LoginInput struct {
	Body struct {
		Username string `json:"username" minLength:"1" maxLength:"255" doc:"Account username"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		User *domain.User `json:"user"`
	}
}

type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
}

type SessionInfoOutput struct {
	Body struct {
		UserID   int64           `json:"user_id"`
		Username string          `json:"username"`
		Name     string          `json:"name"`
		Role     domain.UserRole `json:"role"`
	}
}

// RegisterAuthRoutes wires the unauthenticated login endpoint. cookieTTL and
// cookieSecure come from the session configuration.
func RegisterAuthRoutes(api huma.API, store domain.Store, authSvc AuthService, cookieTTL time.Duration, cookieSecure bool) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with username and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		sess, user, err := authSvc.Login(ctx, input.Body.Username, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid username or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		user.PasswordHash = ""

		out := &LoginOutput{
			SetCookie: sessionCookie(sess.ID, cookieTTL, cookieSecure),
		}
		out.Body.User = user
		return out, nil
	})
}

// RegisterSessionRoutes wires the authenticated session endpoints.
func RegisterSessionRoutes(api huma.API, store domain.Store, authSvc AuthService, cookieSecure bool) {
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Invalidate the current session",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
		sessionID, ok := middleware.SessionIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("no active session")
		}

		if err := authSvc.Logout(ctx, sessionID); err != nil {
			return nil, huma.Error500InternalServerError("logout failed", err)
		}

		// Expire the cookie client-side as well.
		return &LogoutOutput{SetCookie: sessionCookie("", -time.Second, cookieSecure)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/auth/session",
		Summary:     "Describe the current session",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*SessionInfoOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("no active session")
		}

		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error401Unauthorized("account no longer exists")
			}
			return nil, huma.Error500InternalServerError("failed to load account", err)
		}

		out := &SessionInfoOutput{}
		out.Body.UserID = user.ID
		out.Body.Username = user.Username
		out.Body.Name = user.Name
		out.Body.Role = user.Role
		return out, nil
	})
}

func sessionCookie(value string, ttl time.Duration, secure bool) http.Cookie {
	return http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
