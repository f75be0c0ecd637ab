package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/sbilibin2017/auth-gateway/internal/flash"
	"github.com/sbilibin2017/auth-gateway/internal/models"
)

//go:embed pages/*.gohtml
var files embed.FS

// Pages known to the renderer.
const (
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
)

// Data is what every page receives.
type Data struct {
	Title    string
	Notices  []flash.Message
	FullName string // preserved register form input
	Email    string // preserved form input
	User     *models.UserDB
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. Each page is combined with the
// shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageLogin, PageRegister, PageDashboard} {
		t, err := template.ParseFS(files, "pages/layout.gohtml", "pages/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page to w.
func (r *Renderer) Render(w io.Writer, page string, data Data) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
