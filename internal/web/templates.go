package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer renders the embedded HTML templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the named template with the given status code. Template
// execution failures degrade to a plain 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Log.Errorw("template execution failed", "template", name, "error", err)
	}
}

// AuthPage is the data for the signup and login pages.
type AuthPage struct {
	Error string
}

// IndexPage is the data for the todo list page.
type IndexPage struct {
	Username   string
	Todos      []models.TodoDB
	Search     string
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Error      string
}

// UpdatePage is the data for the todo edit page.
type UpdatePage struct {
	Todo  models.TodoDB
	Error string
}
