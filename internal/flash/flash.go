package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// CookieName is the cookie holding queued notices.
const CookieName = "flash"

// Severity categories for notices.
const (
	Danger  = "danger"
	Warning = "warning"
	Success = "success"
	Info    = "info"
)

// Message is a one-time notice queued for display on the next rendered page.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Add queues a notice. Notices already queued on the request are kept, so
// several can accumulate across redirects within one flow.
func Add(w http.ResponseWriter, r *http.Request, category, text string) {
	msgs := append(peek(r), Message{Category: category, Text: text})
	set(w, msgs)
}

// Pop returns all queued notices and clears the cookie. Rendering a page
// consumes the queue.
func Pop(w http.ResponseWriter, r *http.Request) []Message {
	msgs := peek(r)
	if msgs != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return msgs
}

func peek(r *http.Request) []Message {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}

func set(w http.ResponseWriter, msgs []Message) {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
