package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookie(w, &Session{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}, true)

	var c *http.Cookie
	for _, rc := range w.Result().Cookies() {
		if rc.Name == cookieName {
			c = rc
		}
	}
	if c == nil {
		t.Fatalf("expected cookie named %q", cookieName)
	}
	if c.Value != "tok" {
		t.Errorf("value = %q, want tok", c.Value)
	}
	if !c.HttpOnly || !c.Secure {
		t.Error("expected HttpOnly and Secure")
	}
}

func TestClearSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	ClearSessionCookie(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"none", "", "", ""},
		{"cookie", "", "from-cookie", "from-cookie"},
		{"bearer", "Bearer from-header", "", "from-header"},
		{"bearer wins", "Bearer from-header", "from-cookie", "from-header"},
		{"basic ignored", "Basic abc", "from-cookie", "from-cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			if got := TokenFromRequest(r); got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
