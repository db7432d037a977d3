package auth

import (
	"context"
	"net/http"
)

func GetUser(ctx context.Context) User {
	if user, ok := ctx.Value(userCtxKey).(User); ok {
		return user
	}
	return User{}
}

func IsAuthenticated(ctx context.Context) bool {
	u, ok := ctx.Value(userCtxKey).(User)
	return ok && u.Username != ""
}

// RequestUser names the caller of r, from context first and then from its
// Authorization header. Used for logging only; it does not authorize.
func RequestUser(r *http.Request) string {
	if u := GetUser(r.Context()); u.Username != "" {
		return u.Username
	}
	name, _ := userFromHeader(r.Header.Get("Authorization"))
	return name
}
