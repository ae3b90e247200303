// Package web provides the HTTP server, pages and JSON API for the ark site.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/contact"
	"github.com/arkproperty/ark/internal/geocode"
	"github.com/arkproperty/ark/internal/logging"
	"github.com/arkproperty/ark/internal/property"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// pages are the templates rendered inside layout.html.
var pages = []string{
	"home.html",
	"about.html",
	"contact.html",
	"property.html",
	"applications.html",
	"login.html",
	"error.html",
}

// Geocoder resolves an address for the property map.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (*geocode.Coordinates, error)
}

// Options wires the server to its stores and identity provider.
type Options struct {
	Properties    property.Store
	Applications  *application.Service
	Contact       contact.Store
	Auth          auth.Provider
	Geocoder      Geocoder // nil disables the property map
	SecureCookies bool
}

// Server is the web UI and API HTTP server.
type Server struct {
	props    property.Store
	apps     *application.Service
	contact  contact.Store
	auth     auth.Provider
	geocoder Geocoder
	secure   bool
	limiter  *auth.Limiter

	pages    map[string]*template.Template
	partials *template.Template
	mux      *http.ServeMux
	handler  http.Handler
}

// NewServer creates a web server from opts.
func NewServer(opts Options) (*Server, error) {
	if opts.Properties == nil || opts.Applications == nil || opts.Contact == nil || opts.Auth == nil {
		return nil, fmt.Errorf("web server requires property, application, contact and auth backends")
	}

	s := &Server{
		props:    opts.Properties,
		apps:     opts.Applications,
		contact:  opts.Contact,
		auth:     opts.Auth,
		geocoder: opts.Geocoder,
		secure:   opts.SecureCookies,
		limiter:  auth.NewLimiter(auth.DefaultFailureWindow, auth.DefaultMaxFailures),
		pages:    make(map[string]*template.Template, len(pages)),
		mux:      http.NewServeMux(),
	}

	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		s.pages[name] = tmpl
	}

	partials, err := template.New("partials").Funcs(funcMap).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}
	s.partials = partials

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /about", s.handleAbout)
	s.mux.HandleFunc("GET /contact", s.handleContactPage)
	s.mux.HandleFunc("POST /contact", s.handleContactSubmit)
	s.mux.HandleFunc("GET /properties/{id}", s.handleProperty)
	s.mux.HandleFunc("POST /properties/{id}/apply", s.handleApply)
	s.mux.HandleFunc("GET /applications", s.handleApplications)
	s.mux.HandleFunc("POST /applications/{id}/status", s.handleStatusUpdate)

	s.mux.HandleFunc("GET /auth/login", s.handleLoginPage)
	s.mux.HandleFunc("POST /auth/login", s.handleLoginSubmit)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)

	s.mux.HandleFunc("GET /api/properties", s.apiListProperties)
	s.mux.HandleFunc("GET /api/properties/{id}", s.apiGetProperty)
	s.mux.HandleFunc("POST /api/properties/{id}/applications", s.apiSubmitApplication)
	s.mux.HandleFunc("GET /api/applications", s.apiListApplications)
	s.mux.HandleFunc("POST /api/applications/{id}/status", s.apiUpdateStatus)
	s.mux.HandleFunc("POST /api/auth/token", s.apiToken)
	s.mux.HandleFunc("GET /api/auth/me", s.apiMe)

	s.handler = logging.RequestLogger(auth.Identify(s.auth, s.mux))

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealth reports liveness for load balancers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// render executes a full page inside the layout.
func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown page %s", name), http.StatusInternalServerError)
		return
	}
	s.execute(w, status, tmpl, "layout", data)
}

// renderPartial executes a named block from partials.html (no layout).
func (s *Server) renderPartial(w http.ResponseWriter, status int, name string, data interface{}) {
	s.execute(w, status, s.partials, name, data)
}

func (s *Server) execute(w http.ResponseWriter, status int, tmpl *template.Template, name string, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("rendering template", "template", name, "error", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("writing response", "template", name, "error", err)
	}
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
