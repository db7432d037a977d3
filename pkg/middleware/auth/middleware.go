package auth

import (
	"context"
	"net/http"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// AuthorizedRequest checks the request's Authorization header against the set.
func (c Credentials) AuthorizedRequest(r *http.Request) bool {
	return c.Authorized(r.Header.Get("Authorization"))
}

// Middleware guards next with the credential set. Rejected requests get a
// 401 JSON envelope; accepted ones carry the caller's User in their context.
func (c Credentials) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c.Empty() {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			if !c.Authorized(header) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Basic realm="steeze-host"`)
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"response":"NotAuthorized"}`))
				return
			}
			ctx := r.Context()
			if name, ok := userFromHeader(header); ok {
				ctx = context.WithValue(ctx, userCtxKey, User{Username: name})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
