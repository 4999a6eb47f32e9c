package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"log"
	"net/http"
)

//go:embed templates/*
var templatesFS embed.FS

// Renderer handles template rendering
type Renderer struct {
	funcs  template.FuncMap
	logger *log.Logger
}

// NewRenderer creates a new template renderer. imageURL resolves
// backend-relative poster and actor image paths to absolute URLs.
func NewRenderer(imageURL func(string) string, logger *log.Logger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"imageURL": imageURL,
	}

	// Parse everything once up front so a broken template fails at
	// startup, not on first render.
	if _, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"); err != nil {
		return nil, err
	}

	return &Renderer{
		funcs:  funcMap,
		logger: logger,
	}, nil
}

// Render renders a template with data. Each page is parsed together
// with the layout on demand, which keeps same-named blocks in
// different pages from clashing.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	var tmpl *template.Template
	var err error

	// Login page doesn't use layout, others do
	if name == "login.html" {
		tmpl, err = template.New("").Funcs(r.funcs).ParseFS(templatesFS, "templates/"+name)
	} else {
		tmpl, err = template.New("").Funcs(r.funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	}
	if err != nil {
		return err
	}

	return tmpl.ExecuteTemplate(w, name, data)
}

// RenderPage renders a page template and handles errors
func (r *Renderer) RenderPage(w http.ResponseWriter, name string, data interface{}) {
	r.RenderPageStatus(w, http.StatusOK, name, data)
}

// RenderPageStatus renders a page with an explicit response status. The
// page is rendered to a buffer first, so the status and any cookies or
// headers queued by the caller go out together ahead of the body.
func (r *Renderer) RenderPageStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Printf("Failed to render template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
