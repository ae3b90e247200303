package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/contact"
	"github.com/arkproperty/ark/internal/geocode"
	"github.com/arkproperty/ark/internal/property"
)

const geocodeTimeout = 5 * time.Second

// toast is a transient notice shown at the top of the page.
type toast struct {
	Title       string
	Description string
	Error       bool
}

func errorToast(err error) *toast {
	return &toast{Title: "Error", Description: userMessage(err), Error: true}
}

// page is embedded in every page's template data.
type page struct {
	Title string
	User  *auth.User
	Toast *toast
}

func (s *Server) newPage(r *http.Request, title string) page {
	return page{Title: title, User: auth.UserFromContext(r.Context())}
}

type homeData struct {
	page
	Properties []*property.Property
}

type contactData struct {
	page
	Form contact.Message
}

type propertyData struct {
	page
	Property *property.Property
	Selected int
	IsOwner  bool
	MapURL   string
	Form     application.Form
}

type applicationsData struct {
	page
	Overview *application.Overview
}

type errorData struct {
	page
	Message string
}

// renderError renders the error page with the user-facing message for err.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "error", err)
	}
	msg := userMessage(err)
	s.render(w, status, "error.html", errorData{page: s.newPage(r, "Error"), Message: msg})
}

// handleHome lists every property.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	props, err := s.props.List(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "home.html", homeData{page: s.newPage(r, "Find your dream home"), Properties: props})
}

// handleAbout renders the static About page.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about.html", s.newPage(r, "About"))
}

// handleContactPage renders the contact form.
func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request) {
	data := contactData{page: s.newPage(r, "Contact Us")}
	if r.URL.Query().Get("sent") == "1" {
		data.Toast = &toast{Title: "Message sent", Description: "Thank you for your message! We will get back to you soon."}
	}
	s.render(w, http.StatusOK, "contact.html", data)
}

// handleContactSubmit stores a contact message.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	msg := contact.Message{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	err := msg.Validate()
	if err == nil {
		err = s.contact.Insert(r.Context(), &msg)
	}
	if err != nil {
		slog.Warn("contact message rejected", "error", err)
		data := contactData{page: s.newPage(r, "Contact Us"), Form: msg}
		data.Toast = errorToast(err)
		s.render(w, statusFor(err), "contact.html", data)
		return
	}

	slog.Info("contact message received", "email", msg.Email)
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

// handleProperty renders the property detail page.
func (s *Server) handleProperty(w http.ResponseWriter, r *http.Request) {
	prop, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	data := s.propertyPage(r, prop)
	if r.URL.Query().Get("applied") == "1" {
		data.Toast = appliedToast()
	}
	s.render(w, http.StatusOK, "property.html", data)
}

// propertyPage assembles the detail page data. The map is omitted when the
// address cannot be geocoded.
func (s *Server) propertyPage(r *http.Request, prop *property.Property) propertyData {
	user := auth.UserFromContext(r.Context())

	selected, err := strconv.Atoi(r.URL.Query().Get("image"))
	if err != nil || selected < 0 || selected >= len(prop.Images) {
		selected = 0
	}

	data := propertyData{
		page:     s.newPage(r, prop.Title),
		Property: prop,
		Selected: selected,
	}
	if user != nil {
		data.IsOwner = prop.IsOwner(user.ID)
		data.Form.Email = user.Email
	}
	data.MapURL = s.mapURL(r.Context(), prop)
	return data
}

func (s *Server) mapURL(ctx context.Context, prop *property.Property) string {
	if s.geocoder == nil || prop.Address == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	coords, err := s.geocoder.Lookup(ctx, prop.Address)
	if err != nil {
		slog.Warn("geocoding property address", "property", prop.ID, "error", err)
		return ""
	}
	return geocode.EmbedURL(*coords)
}

func appliedToast() *toast {
	return &toast{Title: "Application Submitted", Description: "Your application has been sent to the property owner."}
}

// handleApply submits an application from the property page.
// htmx requests get the contact card back; plain posts redirect.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	form := application.Form{
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}

	user := auth.UserFromContext(r.Context())
	_, err := s.apps.Submit(r.Context(), user, id, form)
	if errors.Is(err, property.ErrNotFound) {
		s.renderError(w, r, err)
		return
	}

	if err == nil && !isHTMX(r) {
		http.Redirect(w, r, "/properties/"+url.PathEscape(id)+"?applied=1", http.StatusSeeOther)
		return
	}

	prop, gerr := s.props.Get(r.Context(), id)
	if gerr != nil {
		s.renderError(w, r, gerr)
		return
	}
	data := s.propertyPage(r, prop)

	if err != nil {
		slog.Warn("application rejected", "property", id, "error", err)
		data.Toast = errorToast(err)
		data.Form = form
	} else {
		data.Toast = appliedToast()
	}

	if isHTMX(r) {
		s.renderPartial(w, http.StatusOK, "contact-card", data)
		return
	}
	s.render(w, statusFor(err), "property.html", data)
}

// handleApplications renders received and sent applications.
func (s *Server) handleApplications(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/auth/login?next="+url.QueryEscape("/applications"), http.StatusSeeOther)
		return
	}

	ov, err := s.apps.Overview(r.Context(), user)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "applications.html", applicationsData{page: s.newPage(r, "Applications"), Overview: ov})
}

// handleStatusUpdate approves or rejects a received application.
func (s *Server) handleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	user := auth.UserFromContext(r.Context())
	status := application.Status(r.FormValue("status"))
	app, err := s.apps.UpdateStatus(r.Context(), user, r.PathValue("id"), status)
	if err != nil {
		slog.Warn("status update failed", "application", r.PathValue("id"), "status", status, "error", err)
		if isHTMX(r) {
			// htmx ignores 4xx and 5xx bodies, so the notice goes out as a 200
			// aimed at the card's error slot.
			w.Header().Set("HX-Retarget", "#status-error-"+r.PathValue("id"))
			w.Header().Set("HX-Reswap", "innerHTML")
			s.renderPartial(w, http.StatusOK, "toast", &toast{
				Title:       "Failed to update status",
				Description: userMessage(err),
				Error:       true,
			})
			return
		}
		if user == nil {
			http.Redirect(w, r, "/auth/login?next="+url.QueryEscape("/applications"), http.StatusSeeOther)
			return
		}
		s.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		s.renderPartial(w, http.StatusOK, "application-received", app)
		return
	}
	http.Redirect(w, r, "/applications", http.StatusSeeOther)
}
