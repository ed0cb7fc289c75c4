package ctx

import (
	"context"

	"github.com/krakosik/runway/internal/model"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type User = model.User

// WithUser returns a copy of parent carrying the signed-in user. Only the auth middleware calls it.
func WithUser(parent context.Context, user User) context.Context {
	return context.WithValue(parent, UserContextKey, user)
}

func GetUserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(UserContextKey).(User)
	return user, ok
}
