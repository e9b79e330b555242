package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/kinsu128-art/it-hub/internal/store/redis"
)

// SessionCookieName is the cookie that carries the login session ID.
const SessionCookieName = "ithub_session"

// Authenticator resolves a session ID into session state.
// Implemented by auth.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*redis.Session, error)
}

// Auth requires a valid session cookie and puts the user's identity, role and
// session ID into the request context.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				unauthorized(w)
				return
			}

			sess, err := authn.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyUserID, sess.UserID)
			ctx = context.WithValue(ctx, ContextKeyUserRole, sess.Role)
			ctx = context.WithValue(ctx, ContextKeySessionID, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"title":"Unauthorized","status":401,"detail":"missing or invalid session"}`))
}

// RequestMeta records the client IP and User-Agent in the request context so
// the audit trail can attribute changes. It runs after chi's RealIP.
func RequestMeta() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyClientIP, ip)
			ctx = context.WithValue(ctx, ContextKeyUserAgent, r.UserAgent())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
