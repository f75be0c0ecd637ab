package handlers

import (
	"io"

	"github.com/sbilibin2017/auth-gateway/internal/templates"
)

// PageRenderer renders a named HTML page into the response.
type PageRenderer interface {
	Render(w io.Writer, page string, data templates.Data) error
}
