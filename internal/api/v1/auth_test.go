package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/kinsu128-art/it-hub/internal/api/v1"
	"github.com/kinsu128-art/it-hub/internal/auth"
	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/store/redis"
)

// ---------------------------------------------------------------------------
// POST /auth/login
// ---------------------------------------------------------------------------

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_sets_session_cookie", func(t *testing.T) {
		t.Parallel()

		authSvc := &mockAuthService{
			loginFunc: func(_ context.Context, username, password string) (*redis.Session, *domain.User, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, "s3cret-pass", password)
				sess := &redis.Session{ID: "sess-abc", UserID: 7, Username: "alice", Role: domain.RoleUser}
				user := &domain.User{ID: 7, Username: "alice", Name: "Alice", Role: domain.RoleUser, PasswordHash: "salt$hash"}
				return sess, user, nil
			},
		}

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, &mockStore{}, authSvc, 7*24*time.Hour, false)

		resp := api.Post("/auth/login", map[string]any{
			"username": "alice",
			"password": "s3cret-pass",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		cookie := resp.Header().Get("Set-Cookie")
		assert.Contains(t, cookie, "ithub_session=sess-abc")
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "Path=/")

		var body struct {
			User domain.User `json:"user"`
		}
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, "alice", body.User.Username)
		assert.NotContains(t, resp.Body.String(), "salt$hash", "password hash never leaves the server")
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		t.Parallel()

		authSvc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (*redis.Session, *domain.User, error) {
				return nil, nil, auth.ErrInvalidCredentials
			},
		}

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, &mockStore{}, authSvc, time.Hour, false)

		resp := api.Post("/auth/login", map[string]any{
			"username": "alice",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("store_error", func(t *testing.T) {
		t.Parallel()

		authSvc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (*redis.Session, *domain.User, error) {
				return nil, nil, errors.New("redis: connection refused")
			},
		}

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, &mockStore{}, authSvc, time.Hour, false)

		resp := api.Post("/auth/login", map[string]any{
			"username": "alice",
			"password": "s3cret-pass",
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /auth/logout
// ---------------------------------------------------------------------------

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_expires_cookie", func(t *testing.T) {
		t.Parallel()

		var loggedOut string
		authSvc := &mockAuthService{
			logoutFunc: func(_ context.Context, sessionID string) error {
				loggedOut = sessionID
				return nil
			},
		}

		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, &mockStore{}, authSvc, false)

		resp := api.PostCtx(writerCtx(), "/auth/logout")

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Equal(t, "test-session", loggedOut)
		assert.Contains(t, resp.Header().Get("Set-Cookie"), "ithub_session=;")
	})

	t.Run("no_session_in_context", func(t *testing.T) {
		t.Parallel()

		authSvc := &mockAuthService{}
		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, &mockStore{}, authSvc, false)

		resp := api.PostCtx(context.Background(), "/auth/logout")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /auth/session
// ---------------------------------------------------------------------------

func TestSessionEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
					require.Equal(t, int64(7), id)
					return &domain.User{ID: 7, Username: "alice", Name: "Alice", Role: domain.RoleUser}, nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, store, &mockAuthService{}, false)

		resp := api.GetCtx(writerCtx(), "/auth/session")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"username":"alice"`)
		assert.Contains(t, resp.Body.String(), `"role":"user"`)
	})

	t.Run("deleted_account", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, _ int64) (*domain.User, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, store, &mockAuthService{}, false)

		resp := api.GetCtx(writerCtx(), "/auth/session")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
