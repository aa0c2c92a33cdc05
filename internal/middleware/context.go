// Package middleware provides HTTP middleware for the minibank API.
package middleware

import (
	"context"

	"github.com/alepanderf/minibank/internal/models"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// UserKey is the context key under which the authenticated user is stored.
const UserKey contextKey = "user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUserFromContext returns the authenticated user, or nil if the request
// was not authenticated.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}
