package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/middlewares"
	"github.com/sbilibin2017/auth-gateway/internal/sessions"
)

func authedRequest(t *testing.T, m *sessions.Manager, userID int64) *http.Request {
	t.Helper()

	rr := httptest.NewRecorder()
	assert.NoError(t, m.Issue(rr, userID, false))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_Anonymous(t *testing.T) {
	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run for anonymous requests")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	middlewares.RequireAuth(m)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	// Warning notice queued for the login page
	carried := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range rr.Result().Cookies() {
		if c.Name == flash.CookieName {
			carried.AddCookie(c)
		}
	}
	msgs := flash.Pop(httptest.NewRecorder(), carried)
	assert.Equal(t, []flash.Message{
		{Category: flash.Warning, Text: "Please log in to access this page."},
	}, msgs)
}

func TestRequireAuth_Authenticated(t *testing.T) {
	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)

	var gotID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middlewares.UserIDFromContext(r.Context())
		assert.True(t, ok)
		gotID = id
	})

	rr := httptest.NewRecorder()
	middlewares.RequireAuth(m)(next).ServeHTTP(rr, authedRequest(t, m, 42))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(42), gotID)
}

func TestRequireAuth_TamperedCookie(t *testing.T) {
	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run for forged sessions")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: "forged.token.value"})

	rr := httptest.NewRecorder()
	middlewares.RequireAuth(m)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRedirectAuthenticated(t *testing.T) {
	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := middlewares.RedirectAuthenticated(m)(next)

	t.Run("authenticated bounced to dashboard", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, authedRequest(t, m, 42))
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middlewares.UserIDFromContext(req.Context())
	assert.False(t, ok)
}
