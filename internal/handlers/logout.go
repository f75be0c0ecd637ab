package handlers

import (
	"net/http"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
)

// SessionRevoker invalidates the session cookie on the response.
type SessionRevoker interface {
	Revoke(w http.ResponseWriter)
}

// NewLogoutHandler revokes the session and sends the user back to the
// login page. The route itself is mounted behind RequireAuth.
func NewLogoutHandler(revoker SessionRevoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		revoker.Revoke(w)
		flash.Add(w, r, flash.Info, "Logged out successfully.")
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
