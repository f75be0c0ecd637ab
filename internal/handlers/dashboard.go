package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/middlewares"
	"github.com/sbilibin2017/auth-gateway/internal/models"
	"github.com/sbilibin2017/auth-gateway/internal/templates"
)

// UserGetter loads the user bound to a resolved session.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (*models.UserDB, error)
}

// NewDashboardHandler returns the protected dashboard page. It runs
// behind RequireAuth, so the user id is always in the context; a stale
// session whose user no longer exists falls back to the login page.
func NewDashboardHandler(svc UserGetter, renderer PageRenderer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			log.Errorw("failed to load user", "err", err, "user_id", userID)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			flash.Add(w, r, flash.Warning, "Please log in to access this page.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		data := templates.Data{
			Title:   "Dashboard",
			Notices: flash.Pop(w, r),
			User:    user,
		}
		if err := renderer.Render(w, templates.PageDashboard, data); err != nil {
			log.Errorw("failed to render dashboard page", "err", err)
		}
	}
}
