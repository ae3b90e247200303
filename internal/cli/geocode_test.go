package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arkproperty/ark/internal/geocode"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "nowhere" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"40.7128","lon":"-74.0060","display_name":"New York"}]`))
	}))
	defer srv.Close()
	t.Setenv("ARK_GEOCODE_URL", srv.URL)

	if err := runGeocode(context.Background(), "New York"); err != nil {
		t.Fatalf("geocode: %v", err)
	}

	err := runGeocode(context.Background(), "nowhere")
	if !errors.Is(err, geocode.ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
}
