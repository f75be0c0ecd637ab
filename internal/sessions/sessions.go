package sessions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

// Session resolution errors.
var (
	ErrNoSession      = errors.New("no session cookie")
	ErrInvalidSession = errors.New("invalid session token")
)

// Manager issues and validates signed session tokens held in a cookie.
// There is no server-side session storage: the identity is reconstructed
// per request from the token itself.
type Manager struct {
	SecretKey   string        // HMAC signing key, persisted across restarts
	TTL         time.Duration // Token lifetime for browser-session logins
	RememberTTL time.Duration // Token and cookie lifetime for "remember me" logins
}

// New creates a new session Manager.
func New(secretKey string, ttl, rememberTTL time.Duration) *Manager {
	return &Manager{
		SecretKey:   secretKey,
		TTL:         ttl,
		RememberTTL: rememberTTL,
	}
}

// Issue signs a session token for userID and writes it into the session
// cookie. With remember=false the cookie has no MaxAge, so it ends with
// the browser session; with remember=true both the cookie and the token
// live for RememberTTL.
func (m *Manager) Issue(w http.ResponseWriter, userID int64, remember bool) error {
	exp := m.TTL
	if remember {
		exp = m.RememberTTL
	}

	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"exp":     time.Now().Add(exp).Unix(),
		"iat":     time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.SecretKey))
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(m.RememberTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Resolve verifies the session cookie on the request and returns the
// bound user id. A missing cookie returns ErrNoSession; a tampered,
// malformed or expired token returns ErrInvalidSession.
func (m *Manager) Resolve(r *http.Request) (int64, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return 0, ErrNoSession
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidSession
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return 0, ErrInvalidSession
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, ErrInvalidSession
	}

	return userID, nil
}

// Revoke expires the session cookie immediately.
func (m *Manager) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
