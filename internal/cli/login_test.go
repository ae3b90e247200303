package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-abc","expires_at":"2030-01-01T00:00:00Z","user":{"id":"u1","email":"` + body["email"] + `"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginSavesToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newLoginServer(t)

	var out bytes.Buffer
	in := strings.NewReader("ann@example.com\nsecret1\n")
	if err := runLogin(context.Background(), in, &out, srv.URL, ""); err != nil {
		t.Fatalf("login: %v", err)
	}

	cfg, err := loadProfile()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "tok-abc" || cfg.Email != "ann@example.com" || cfg.ServerURL != srv.URL {
		t.Errorf("profile = %+v", cfg)
	}
	if !cfg.ExpiresAt.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expires_at = %v", cfg.ExpiresAt)
	}
	if !strings.Contains(out.String(), "Logged in as ann@example.com") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoginEmailFlagSkipsPrompt(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newLoginServer(t)

	var out bytes.Buffer
	if err := runLogin(context.Background(), strings.NewReader("secret1"), &out, srv.URL, "bob@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if strings.Contains(out.String(), "Email:") {
		t.Error("email should not be prompted when given")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newLoginServer(t)

	var out bytes.Buffer
	err := runLogin(context.Background(), strings.NewReader("ann@example.com\nwrong\n"), &out, srv.URL, "")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("err = %v", err)
	}

	cfg, err := loadProfile()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "" {
		t.Error("token should not be saved on failure")
	}
}

func TestLoginEmptyInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	err := runLogin(context.Background(), strings.NewReader(""), &out, "http://127.0.0.1:1", "")
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("err = %v", err)
	}
}
