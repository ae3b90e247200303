package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/arkproperty/ark/internal/auth"
)

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest("GET", "/auth/login?next=/applications", nil), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `name="password"`) {
		t.Error("expected password field")
	}
	if !strings.Contains(body, `name="next" value="/applications"`) {
		t.Error("expected next path carried in form")
	}
}

func TestLoginSubmit(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"email": {"Owner@Example.com"}, "password": {testPassword}, "next": {"/applications"}}
	w := env.do(t, formRequest("/auth/login", form), nil)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/applications" {
		t.Errorf("location = %q, want /applications", loc)
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "ark_session" {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !session.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	// The cookie signs subsequent requests in.
	r := httptest.NewRequest("GET", "/applications", nil)
	r.AddCookie(session)
	w = env.do(t, r, nil)
	if w.Code != http.StatusOK {
		t.Errorf("applications with cookie: status = %d, want 200", w.Code)
	}
}

func TestLoginSubmitErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
		wantText string
	}{
		{"wrong password", url.Values{"email": {"owner@example.com"}, "password": {"nope-nope"}}, http.StatusUnauthorized, "Invalid email or password"},
		{"unknown user", url.Values{"email": {"ghost@example.com"}, "password": {testPassword}}, http.StatusUnauthorized, "Invalid email or password"},
		{"missing fields", url.Values{"email": {"owner@example.com"}}, http.StatusBadRequest, "Email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, formRequest("/auth/login", tt.form), nil)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), tt.wantText) {
				t.Errorf("expected %q in body", tt.wantText)
			}
			for _, c := range w.Result().Cookies() {
				if c.Name == "ark_session" && c.Value != "" {
					t.Error("no session cookie expected on failure")
				}
			}
		})
	}
}

func TestLoginSubmitRateLimited(t *testing.T) {
	env := newTestEnv(t)
	bad := url.Values{"email": {"owner@example.com"}, "password": {"nope-nope"}}

	for i := 0; i < auth.DefaultMaxFailures; i++ {
		if w := env.do(t, formRequest("/auth/login", bad), nil); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, w.Code)
		}
	}

	// Even the right password is refused until the window passes.
	good := url.Values{"email": {"owner@example.com"}, "password": {testPassword}}
	w := env.do(t, formRequest("/auth/login", good), nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Too many failed sign-in attempts") {
		t.Error("expected rate limit message on login page")
	}

	other := formRequest("/auth/login", good)
	other.RemoteAddr = "198.51.100.7:4321"
	if w := env.do(t, other, nil); w.Code != http.StatusSeeOther {
		t.Errorf("other client: status = %d, want 303", w.Code)
	}
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	env := newTestEnv(t)
	bad := url.Values{"email": {"owner@example.com"}, "password": {"nope-nope"}}
	good := url.Values{"email": {"owner@example.com"}, "password": {testPassword}}

	for i := 0; i < auth.DefaultMaxFailures-1; i++ {
		env.do(t, formRequest("/auth/login", bad), nil)
	}
	if w := env.do(t, formRequest("/auth/login", good), nil); w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if w := env.do(t, formRequest("/auth/login", bad), nil); w.Code != http.StatusUnauthorized {
		t.Errorf("after success: status = %d, want 401", w.Code)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest("POST", "/auth/logout", nil), env.owner)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "ark_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie cleared")
	}
}

func TestInvalidSessionCookieIsCleared(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "ark_session", Value: "garbage"})
	w := env.do(t, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `href="/auth/login"`) {
		t.Error("expected anonymous navbar")
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/applications":        "/applications",
		"/properties/1?x=y":    "/properties/1?x=y",
		"https://evil.example": "/",
		"//evil.example":       "/",
		`/\evil.example`:       "/",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
