package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/property"
)

func apiRequest(t *testing.T, env *testEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &reqBody)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.srv.ServeHTTP(w, r)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func apiErrorText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decodeJSON(t, w, &resp)
	return resp["error"]
}

func TestAPIListProperties(t *testing.T) {
	env := newTestEnv(t)
	env.addProperty(t, "Harbor View", "/img/a.jpg")
	env.addProperty(t, "Maple Cottage")

	w := apiRequest(t, env, "GET", "/api/properties", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var props []*property.Property
	decodeJSON(t, w, &props)
	if len(props) != 2 {
		t.Fatalf("got %d properties, want 2", len(props))
	}
	if props[0].Title != "Maple Cottage" {
		t.Errorf("first = %q, want newest first", props[0].Title)
	}
}

func TestAPIGetProperty(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProperty(t, "Harbor View", "/img/a.jpg")

	w := apiRequest(t, env, "GET", "/api/properties/"+p.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got property.Property
	decodeJSON(t, w, &got)
	if got.ID != p.ID || got.Bathrooms != 2.5 || len(got.Images) != 1 {
		t.Errorf("property = %+v", got)
	}

	w = apiRequest(t, env, "GET", "/api/properties/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", w.Code)
	}
	if msg := apiErrorText(t, w); msg != "Property not found" {
		t.Errorf("error = %q", msg)
	}
}

func TestAPISubmitApplication(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProperty(t, "Harbor View")
	form := application.Form{Email: "applicant@example.com", Phone: "555-0100", Message: "Still available?"}

	w := apiRequest(t, env, "POST", "/api/properties/"+p.ID+"/applications", env.token(t, env.applicant), form)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var app application.Application
	decodeJSON(t, w, &app)
	if app.Status != application.StatusPending || app.ApplicantID != env.applicant.ID {
		t.Errorf("application = %+v", app)
	}
	if app.Title() != "Harbor View" {
		t.Errorf("title = %q", app.Title())
	}
}

func TestAPISubmitApplicationErrors(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProperty(t, "Harbor View")
	form := application.Form{Email: "a@example.com", Phone: "555", Message: "hi"}

	tests := []struct {
		name     string
		token    string
		body     interface{}
		wantCode int
	}{
		{"anonymous", "", form, http.StatusUnauthorized},
		{"bad token", "garbage", form, http.StatusUnauthorized},
		{"owner", env.token(t, env.owner), form, http.StatusForbidden},
		{"missing fields", env.token(t, env.applicant), application.Form{Email: "a@example.com"}, http.StatusBadRequest},
		{"bad json", env.token(t, env.applicant), "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, env, "POST", "/api/properties/"+p.ID+"/applications", tt.token, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if apiErrorText(t, w) == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestAPIListApplications(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProperty(t, "Harbor View")
	env.addApplication(t, p.ID)

	w := apiRequest(t, env, "GET", "/api/applications", env.token(t, env.owner), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var ov application.Overview
	decodeJSON(t, w, &ov)
	if len(ov.Received) != 1 || len(ov.Sent) != 0 {
		t.Errorf("owner overview: received %d sent %d", len(ov.Received), len(ov.Sent))
	}

	w = apiRequest(t, env, "GET", "/api/applications", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", w.Code)
	}
}

func TestAPIUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProperty(t, "Harbor View")
	a := env.addApplication(t, p.ID)
	path := "/api/applications/" + a.ID + "/status"

	w := apiRequest(t, env, "POST", path, env.token(t, env.applicant), map[string]string{"status": "approved"})
	if w.Code != http.StatusForbidden {
		t.Errorf("applicant: status = %d, want 403", w.Code)
	}

	w = apiRequest(t, env, "POST", path, env.token(t, env.owner), map[string]string{"status": "archived"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status: status = %d, want 400", w.Code)
	}

	w = apiRequest(t, env, "POST", path, env.token(t, env.owner), map[string]string{"status": "rejected"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner: status = %d, body = %s", w.Code, w.Body.String())
	}
	var app application.Application
	decodeJSON(t, w, &app)
	if app.Status != application.StatusRejected {
		t.Errorf("status = %q, want rejected", app.Status)
	}
}

func TestAPIToken(t *testing.T) {
	env := newTestEnv(t)

	w := apiRequest(t, env, "POST", "/api/auth/token", "", map[string]string{"email": "owner@example.com", "password": testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var sess auth.Session
	decodeJSON(t, w, &sess)
	if sess.AccessToken == "" || sess.User == nil || sess.User.ID != env.owner.ID {
		t.Fatalf("session = %+v", sess)
	}

	w = apiRequest(t, env, "GET", "/api/auth/me", sess.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d", w.Code)
	}
	var me auth.User
	decodeJSON(t, w, &me)
	if me.Email != "owner@example.com" {
		t.Errorf("me = %+v", me)
	}

	w = apiRequest(t, env, "POST", "/api/auth/token", "", map[string]string{"email": "owner@example.com", "password": "wrong-one"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", w.Code)
	}

	w = apiRequest(t, env, "GET", "/api/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me: status = %d, want 401", w.Code)
	}
}

func TestAPITokenRateLimited(t *testing.T) {
	env := newTestEnv(t)
	bad := map[string]string{"email": "ghost@example.com", "password": "wrong-one"}

	for i := 0; i < auth.DefaultMaxFailures; i++ {
		if w := apiRequest(t, env, "POST", "/api/auth/token", "", bad); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, w.Code)
		}
	}

	w := apiRequest(t, env, "POST", "/api/auth/token", "", map[string]string{"email": "owner@example.com", "password": testPassword})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := apiErrorText(t, w); got != "too many failed sign-in attempts" {
		t.Errorf("error = %q", got)
	}
}
