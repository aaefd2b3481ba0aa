// Package handler contains the HTTP handlers of the GitOrbit pages.
//
// WHAT IS A HANDLER?
// In Go, an HTTP handler is anything that implements the http.Handler interface:
//
//	type Handler interface {
//	    ServeHTTP(ResponseWriter, *Request)
//	}
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming request (path params, query, form fields, uploads)
// 2. Call the view service with the signed-in session
// 3. Render the page template, or redirect after a sign in / creation
//
// Handlers hold no business rules: validation, backend calls and the
// patching of view state all happen in the service package.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/sakif/gitorbit/internal/model"
)

// pageNames are the templates that fill the "content" block of base.html.
var pageNames = []string{"login", "signup", "dashboard", "create", "repo", "file", "profile", "error"}

// Page is what every template receives.
type Page struct {
	Title   string
	Session *model.Session // nil on the sign in and sign up pages
	Flash   *Flash
	Data    any
}

// Renderer holds the parsed page templates.
//
// TEMPLATE PARSING:
// Each page is parsed together with base.html into its own template set, so
// every page can define "content" without clashing with the others. Parsing
// happens once at startup; a broken template fails New, not a request.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses templates/*.html from files.
func NewRenderer(files fs.FS, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames)), logger: logger}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(files,
			"templates/base.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the named page into a buffer and only then writes the
// status line, so a template error still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("unknown template", slog.String("name", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.Debug("writing page", slog.String("error", err.Error()))
	}
}
