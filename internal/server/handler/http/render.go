// Package http provides the HTTP handlers, templates and routing for the
// plantcafe web application.
package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data handed to a template. Handlers fill Title, Form, Errors
// and Data; Render adds the caller's identity and pending flashes.
type Page struct {
	Title  string
	Form   any
	Errors forms.Errors
	Data   map[string]any

	User    *models.User
	CSRF    string
	Flashes []string
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

// NewRenderer parses every page under templates/pages.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
	}
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, log: log}, nil
}

// Render writes page name with status. Flashes are consumed only when the
// page renders.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	t, ok := rn.pages[name]
	if !ok {
		rn.ServerError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}
	rc := middleware.FromContext(r.Context())
	p.User = rc.User
	p.CSRF = rc.Session.CSRF
	p.Flashes = rc.Session.Flashes

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		rn.ServerError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	rc.Session.PopFlashes()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, r, http.StatusNotFound, "not_found", Page{Title: "Not Found"})
}

// ServerError logs err and answers with a generic 500.
func (rn *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	rn.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

func addFlash(r *http.Request, msg string) {
	middleware.FromContext(r.Context()).Session.AddFlash(msg)
}

func flashRedirect(w http.ResponseWriter, r *http.Request, msg, to string) {
	addFlash(r, msg)
	redirect(w, r, to)
}

// postForm returns the parsed form body. A body that fails to parse reads
// as empty, which the form validation then reports.
func postForm(r *http.Request) url.Values {
	_ = r.ParseForm()
	return r.PostForm
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, msg any) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
