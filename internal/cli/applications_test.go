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

	"github.com/arkproperty/ark/internal/application"
)

func newApplicationsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Not authenticated"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/applications":
			_ = json.NewEncoder(w).Encode(application.Overview{
				Received: []*application.Application{{
					ID: "recv-1", Email: "renter@example.com", Status: application.StatusPending,
					CreatedAt: time.Now(), Property: &application.PropertySummary{Title: "Harbor View"},
				}},
				Sent: []*application.Application{{
					ID: "sent-1", Email: "me@example.com", Status: application.StatusApproved,
					CreatedAt: time.Now(), Property: &application.PropertySummary{Title: "Maple Grove"},
				}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/applications/recv-1/status":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(application.Application{
				ID: "recv-1", Status: application.Status(body["status"]),
				Property: &application.PropertySummary{Title: "Harbor View"},
			})
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Only the property owner can review applications"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApplications(t *testing.T) {
	srv := newApplicationsServer(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARK_SERVER_URL", srv.URL)
	t.Setenv("ARK_TOKEN", "tok")

	tests := []struct {
		name               string
		received, sent     bool
		wantIn, wantAbsent []string
	}{
		{"both", true, true, []string{"Received applications (1)", "Sent applications (1)", "Harbor View", "Maple Grove"}, nil},
		{"received only", true, false, []string{"Received applications (1)", "recv-1"}, []string{"Sent applications"}},
		{"sent only", false, true, []string{"Sent applications (1)", "approved"}, []string{"Received applications"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runApplications(context.Background(), &out, tt.received, tt.sent); err != nil {
				t.Fatalf("applications: %v", err)
			}
			for _, want := range tt.wantIn {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(out.String(), absent) {
					t.Errorf("output should not contain %q:\n%s", absent, out.String())
				}
			}
		})
	}
}

func TestApplicationsRequiresLogin(t *testing.T) {
	srv := newApplicationsServer(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARK_SERVER_URL", srv.URL)
	t.Setenv("ARK_TOKEN", "")

	var out bytes.Buffer
	err := runApplications(context.Background(), &out, true, true)
	if err == nil || err.Error() != "Not authenticated" {
		t.Fatalf("err = %v", err)
	}
}

func TestReview(t *testing.T) {
	srv := newApplicationsServer(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARK_SERVER_URL", srv.URL)
	t.Setenv("ARK_TOKEN", "tok")

	var out bytes.Buffer
	if err := runReview(context.Background(), &out, "recv-1", application.StatusApproved); err != nil {
		t.Fatalf("review: %v", err)
	}
	if out.String() != "✓ Application recv-1 for Harbor View is now approved.\n" {
		t.Errorf("output = %q", out.String())
	}

	err := runReview(context.Background(), &out, "other", application.StatusRejected)
	if err == nil || !strings.Contains(err.Error(), "Only the property owner") {
		t.Fatalf("err = %v", err)
	}
}
