package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/services"
	"github.com/sbilibin2017/auth-gateway/internal/templates"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, fullName, email, password, confirm string) error
}

// NewRegisterHandler returns an HTTP handler for the registration form.
// GET renders the form; POST validates and creates the account. Every
// validation failure is shown at once and the form keeps the submitted
// full name and email, never the passwords. A successful registration
// redirects to the login page without logging the user in.
func NewRegisterHandler(svc Registerer, renderer PageRenderer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := templates.Data{Title: "Register"}

		if r.Method == http.MethodGet {
			data.Notices = flash.Pop(w, r)
			if err := renderer.Render(w, templates.PageRegister, data); err != nil {
				log.Errorw("failed to render register page", "err", err)
			}
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		fullName := strings.TrimSpace(r.FormValue("full_name"))
		email := services.NormalizeEmail(r.FormValue("email"))
		password := r.FormValue("password")
		confirm := r.FormValue("confirm")

		data.FullName = fullName
		data.Email = email

		err := svc.Register(r.Context(), fullName, email, password, confirm)
		if err == nil {
			flash.Add(w, r, flash.Success, "Account created successfully. Please log in.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			for _, msg := range vErr.Messages {
				data.Notices = append(data.Notices, flash.Message{Category: flash.Danger, Text: msg})
			}
		case errors.Is(err, services.ErrEmailTaken):
			data.Notices = append(data.Notices, flash.Message{Category: flash.Danger, Text: "Email already registered. Please log in."})
		default:
			log.Errorw("registration failed", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			data.Notices = append(data.Notices, flash.Message{Category: flash.Danger, Text: "Something went wrong. Please try again."})
		}

		if err := renderer.Render(w, templates.PageRegister, data); err != nil {
			log.Errorw("failed to render register page", "err", err)
		}
	}
}
