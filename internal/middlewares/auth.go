package middlewares

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
)

// SessionResolver defines the minimal interface needed by the guards.
type SessionResolver interface {
	Resolve(r *http.Request) (int64, error)
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var userIDKey = contextKey{}

// UserIDFromContext retrieves the authenticated user id set by
// RequireAuth. The second return is false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RequireAuth gates a protected page. Anonymous requests are redirected
// to the login page with a warning notice; authenticated requests carry
// the resolved user id in the context.
func RequireAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.Resolve(r)
			if err != nil {
				flash.Add(w, r, flash.Warning, "Please log in to access this page.")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectAuthenticated bounces already-authenticated users away from
// the login and register pages.
func RedirectAuthenticated(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := resolver.Resolve(r); err == nil {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
