package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arkproperty/ark/internal/auth"
)

type loginData struct {
	page
	Email string
	Next  string
	Error string
}

// handleLoginPage renders the login form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", loginData{
		page: s.newPage(r, "Log In"),
		Next: safeNext(r.URL.Query().Get("next")),
	})
}

// handleLoginSubmit signs the user in and sets the session cookie.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	data := loginData{page: s.newPage(r, "Log In"), Email: email, Next: next}
	if email == "" || password == "" {
		data.Error = "Email and password are required"
		s.render(w, http.StatusBadRequest, "login.html", data)
		return
	}

	ip := auth.ClientIP(r)
	if s.limiter.Blocked(ip) {
		data.Error = tooManyAttempts
		s.render(w, http.StatusTooManyRequests, "login.html", data)
		return
	}

	sess, err := s.signIn(r, ip, email, password)
	if err != nil {
		data.Error = userMessage(err)
		s.render(w, statusFor(err), "login.html", data)
		return
	}

	auth.SetSessionCookie(w, sess, s.secure)
	slog.Info("user signed in", "user", sess.User.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

const tooManyAttempts = "Too many failed sign-in attempts. Try again in a minute."

// signIn calls the provider and counts bad credentials against ip.
func (s *Server) signIn(r *http.Request, ip, email, password string) (*auth.Session, error) {
	sess, err := s.auth.SignIn(r.Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		if s.limiter.RecordFailure(ip) {
			slog.Warn("sign in rate limited", "ip", ip)
		}
	case err != nil:
		slog.Error("sign in failed", "error", err)
	default:
		s.limiter.Reset(ip)
	}
	return sess, err
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext limits post-login redirects to local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
