package handlers

import "net/http"

// SessionResolver resolves the identity bound to the request, if any.
type SessionResolver interface {
	Resolve(r *http.Request) (int64, error)
}

// NewHomeHandler routes the root path by session state: authenticated
// users go to the dashboard, everyone else to the login page.
func NewHomeHandler(resolver SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := resolver.Resolve(r); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
