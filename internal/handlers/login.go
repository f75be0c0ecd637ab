package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/models"
	"github.com/sbilibin2017/auth-gateway/internal/services"
	"github.com/sbilibin2017/auth-gateway/internal/templates"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (*models.UserDB, error)
}

// SessionIssuer writes a signed session for the user into the response.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, userID int64, remember bool) error
}

// NewLoginHandler returns an HTTP handler for the login form. GET
// renders the form; POST authenticates and issues a session honoring
// the remember-me checkbox. Lookup failure and password mismatch show
// the same notice.
func NewLoginHandler(svc Loginer, issuer SessionIssuer, renderer PageRenderer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := templates.Data{Title: "Log in"}

		if r.Method == http.MethodGet {
			data.Notices = flash.Pop(w, r)
			if err := renderer.Render(w, templates.PageLogin, data); err != nil {
				log.Errorw("failed to render login page", "err", err)
			}
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		email := services.NormalizeEmail(r.FormValue("email"))
		remember := r.FormValue("remember") == "on"
		data.Email = email

		user, err := svc.Login(r.Context(), email, r.FormValue("password"))
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				data.Notices = append(data.Notices, flash.Message{Category: flash.Danger, Text: "Invalid email or password."})
			} else {
				log.Errorw("login failed", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				data.Notices = append(data.Notices, flash.Message{Category: flash.Danger, Text: "Something went wrong. Please try again."})
			}
			if err := renderer.Render(w, templates.PageLogin, data); err != nil {
				log.Errorw("failed to render login page", "err", err)
			}
			return
		}

		if err := issuer.Issue(w, user.UserID, remember); err != nil {
			log.Errorw("failed to issue session", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			data.Notices = append(data.Notices, flash.Message{Category: flash.Danger, Text: "Something went wrong. Please try again."})
			if err := renderer.Render(w, templates.PageLogin, data); err != nil {
				log.Errorw("failed to render login page", "err", err)
			}
			return
		}

		firstName := user.FullName
		if fields := strings.Fields(user.FullName); len(fields) > 0 {
			firstName = fields[0]
		}
		flash.Add(w, r, flash.Success, "Welcome back, "+firstName+"!")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}
