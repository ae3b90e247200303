package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubProvider struct {
	users map[string]*User
}

func (s stubProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return nil, ErrInvalidCredentials
}

func (s stubProvider) User(ctx context.Context, token string) (*User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	switch token {
	case "timeout":
		return nil, fmt.Errorf("fetching user: %w", context.DeadlineExceeded)
	case "unavailable":
		return nil, errors.New("request failed (503): service unavailable")
	}
	return nil, ErrInvalidToken
}

func TestIdentify(t *testing.T) {
	provider := stubProvider{users: map[string]*User{
		"good": {ID: "u1", Email: "a@example.com"},
	}}

	tests := []struct {
		name        string
		cookie      string
		header      string
		wantUser    string
		wantCleared bool
	}{
		{name: "anonymous"},
		{name: "valid cookie", cookie: "good", wantUser: "u1"},
		{name: "valid bearer", header: "Bearer good", wantUser: "u1"},
		{name: "stale cookie is cleared", cookie: "stale", wantCleared: true},
		{name: "lookup timeout keeps cookie", cookie: "timeout"},
		{name: "provider outage keeps cookie", cookie: "unavailable"},
		{name: "bad bearer leaves cookie alone", header: "Bearer stale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotToken string
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u := UserFromContext(r.Context()); u != nil {
					gotUser = u.ID
				}
				gotToken = AccessToken(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest("GET", "/applications", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			Identify(provider, inner).ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if gotUser != tt.wantUser {
				t.Errorf("user = %q, want %q", gotUser, tt.wantUser)
			}
			if tt.wantUser != "" && gotToken != "good" {
				t.Errorf("token = %q, want good", gotToken)
			}
			cleared := false
			for _, c := range w.Result().Cookies() {
				if c.Name == cookieName && c.MaxAge < 0 {
					cleared = true
				}
			}
			if cleared != tt.wantCleared {
				t.Errorf("cookie cleared = %v, want %v", cleared, tt.wantCleared)
			}
		})
	}
}

func TestIdentifySkipsStatic(t *testing.T) {
	called := false
	provider := stubProvider{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("GET", "/static/style.css", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "stale"})
	w := httptest.NewRecorder()
	Identify(provider, inner).ServeHTTP(w, r)

	if !called {
		t.Fatal("expected inner handler to run")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected static request to leave cookies alone")
	}
}

func TestUserName(t *testing.T) {
	if got := (&User{Email: "a@example.com"}).Name(); got != "a@example.com" {
		t.Errorf("name = %q", got)
	}
	if got := (&User{Email: "a@example.com", DisplayName: "Ann"}).Name(); got != "Ann" {
		t.Errorf("name = %q", got)
	}
}
