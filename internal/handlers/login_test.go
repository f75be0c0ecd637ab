package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/models"
	"github.com/sbilibin2017/auth-gateway/internal/services"
	"github.com/sbilibin2017/auth-gateway/internal/sessions"
)

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessions.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginHandler_GET(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)
	handler := NewLoginHandler(NewMockLoginer(ctrl), m, newRenderer(t), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Log in")
}

func TestLoginHandler_POST_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: 42, FullName: "Al Smith", Email: "a@b.com"}

	mockSvc := NewMockLoginer(ctrl)
	mockSvc.EXPECT().
		Login(gomock.Any(), "a@b.com", "secret123").
		Return(user, nil)

	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)
	handler := NewLoginHandler(mockSvc, m, newRenderer(t), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	handler(rr, postForm("/login", url.Values{
		"email":    {" A@B.com "},
		"password": {"secret123"},
	}))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	// Session issued and resolvable
	cookie := sessionCookie(rr)
	assert.NotNil(t, cookie)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	userID, err := m.Resolve(req)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	// Personalized welcome uses the first token of the full name
	assert.Equal(t, []flash.Message{
		{Category: flash.Success, Text: "Welcome back, Al!"},
	}, poppedFlashes(t, rr))
}

func TestLoginHandler_POST_RememberMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: 7, FullName: "Bob", Email: "bob@b.com"}
	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)

	t.Run("checkbox present extends cookie lifetime", func(t *testing.T) {
		mockSvc := NewMockLoginer(ctrl)
		mockSvc.EXPECT().Login(gomock.Any(), "bob@b.com", "secret123").Return(user, nil)
		handler := NewLoginHandler(mockSvc, m, newRenderer(t), zap.NewNop().Sugar())

		rr := httptest.NewRecorder()
		handler(rr, postForm("/login", url.Values{
			"email":    {"bob@b.com"},
			"password": {"secret123"},
			"remember": {"on"},
		}))

		cookie := sessionCookie(rr)
		assert.NotNil(t, cookie)
		assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	})

	t.Run("checkbox absent issues browser-session cookie", func(t *testing.T) {
		mockSvc := NewMockLoginer(ctrl)
		mockSvc.EXPECT().Login(gomock.Any(), "bob@b.com", "secret123").Return(user, nil)
		handler := NewLoginHandler(mockSvc, m, newRenderer(t), zap.NewNop().Sugar())

		rr := httptest.NewRecorder()
		handler(rr, postForm("/login", url.Values{
			"email":    {"bob@b.com"},
			"password": {"secret123"},
		}))

		cookie := sessionCookie(rr)
		assert.NotNil(t, cookie)
		assert.Equal(t, 0, cookie.MaxAge)
	})
}

func TestLoginHandler_POST_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)

	// Unknown email and wrong password produce the identical notice
	for _, name := range []string{"unknown email", "wrong password"} {
		t.Run(name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			mockSvc.EXPECT().
				Login(gomock.Any(), "a@b.com", "wrong").
				Return(nil, services.ErrInvalidCredentials)

			handler := NewLoginHandler(mockSvc, m, newRenderer(t), zap.NewNop().Sugar())

			rr := httptest.NewRecorder()
			handler(rr, postForm("/login", url.Values{
				"email":    {"a@b.com"},
				"password": {"wrong"},
			}))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), "Invalid email or password.")
			assert.Contains(t, rr.Body.String(), `value="a@b.com"`)
			assert.Nil(t, sessionCookie(rr))
		})
	}
}

func TestLoginHandler_POST_InternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	mockSvc.EXPECT().
		Login(gomock.Any(), "a@b.com", "secret123").
		Return(nil, errors.New("database failure"))

	m := sessions.New("test-secret", time.Hour, 30*24*time.Hour)
	handler := NewLoginHandler(mockSvc, m, newRenderer(t), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	handler(rr, postForm("/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"secret123"},
	}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Something went wrong. Please try again.")
}
