package middleware

import (
	"context"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserRole  contextKey = "role"
	ContextKeySessionID contextKey = "session_id"
	ContextKeyClientIP  contextKey = "client_ip"
	ContextKeyUserAgent contextKey = "user_agent"
)

func UserIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(int64)
	return v, ok
}

func RoleFromContext(ctx context.Context) (domain.UserRole, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(domain.UserRole)
	return v, ok
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeySessionID).(string)
	return v, ok
}

func ClientIPFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyClientIP).(string)
	return v, ok
}

func UserAgentFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyUserAgent).(string)
	return v, ok
}
