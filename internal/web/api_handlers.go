package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("encoding api error", "error", err)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encoding api response", "error", err)
	}
}

// apiFail maps err to a status code and writes it as a JSON error.
func apiFail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("api request failed", "path", r.URL.Path, "error", err)
	}
	apiError(w, userMessage(err), code)
}

// apiListProperties returns all properties as JSON.
func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.props.List(r.Context())
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, props, http.StatusOK)
}

// apiGetProperty returns a single property as JSON.
func (s *Server) apiGetProperty(w http.ResponseWriter, r *http.Request) {
	prop, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, prop, http.StatusOK)
}

// apiSubmitApplication files an application for the signed-in user.
func (s *Server) apiSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var form application.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	app, err := s.apps.Submit(r.Context(), auth.UserFromContext(r.Context()), r.PathValue("id"), form)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, app, http.StatusCreated)
}

// apiListApplications returns the caller's received and sent applications.
func (s *Server) apiListApplications(w http.ResponseWriter, r *http.Request) {
	ov, err := s.apps.Overview(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, ov, http.StatusOK)
}

// apiUpdateStatus approves or rejects an application.
func (s *Server) apiUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status application.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	app, err := s.apps.UpdateStatus(r.Context(), auth.UserFromContext(r.Context()), r.PathValue("id"), req.Status)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, app, http.StatusOK)
}

// apiToken exchanges credentials for an access token.
func (s *Server) apiToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		apiError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	ip := auth.ClientIP(r)
	if s.limiter.Blocked(ip) {
		apiError(w, "too many failed sign-in attempts", http.StatusTooManyRequests)
		return
	}

	sess, err := s.signIn(r, ip, req.Email, req.Password)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sess, http.StatusOK)
}

// apiMe returns the user behind the bearer token.
func (s *Server) apiMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		apiError(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	apiJSON(w, user, http.StatusOK)
}
