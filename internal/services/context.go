package services

import (
	"context"

	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
)

type ctxKey string

const userIDKey ctxKey = "auth_user_id"

// WithUserID stores the authenticated user id on the context. Set by
// the auth middleware; every service operation reads it back.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id or
// ErrUnauthorized when the context carries none.
func UserIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(userIDKey).(int64)
	if !ok || id == 0 {
		return 0, portal_errors.ErrUnauthorized
	}
	return id, nil
}
