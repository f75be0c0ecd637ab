package templates

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/models"
)

func TestRenderer_AllPagesParse(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	user := &models.UserDB{UserID: 1, FullName: "Al Smith", Email: "a@b.com", CreatedAt: time.Now()}

	for _, page := range []string{PageLogin, PageRegister, PageDashboard} {
		t.Run(page, func(t *testing.T) {
			var buf bytes.Buffer
			err := r.Render(&buf, page, Data{Title: "Test", User: user})
			assert.NoError(t, err)
			assert.Contains(t, buf.String(), "<title>Test</title>")
		})
	}
}

func TestRenderer_NoticesByCategory(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, PageLogin, Data{
		Title: "Log in",
		Notices: []flash.Message{
			{Category: flash.Danger, Text: "Invalid email or password."},
			{Category: flash.Info, Text: "Logged out successfully."},
		},
	})
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "alert-danger")
	assert.Contains(t, out, "Invalid email or password.")
	assert.Contains(t, out, "alert-info")
	assert.Contains(t, out, "Logged out successfully.")
}

func TestRenderer_EscapesUserInput(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, PageRegister, Data{
		Title:    "Register",
		FullName: `<script>alert(1)</script>`,
	})
	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "nonexistent", Data{}))
}
