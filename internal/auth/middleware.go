package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Identify is middleware that resolves the session token on every request
// and stores the user in the request context. Requests without a valid token
// continue anonymously; pages decide for themselves whether that is allowed.
// A cookie holding a token the provider rejects is cleared; other lookup
// failures leave it in place so an identity outage does not sign users out.
func Identify(provider Provider, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := provider.User(r.Context(), token)
		if errors.Is(err, ErrInvalidToken) {
			slog.Debug("session rejected", "path", r.URL.Path, "error", err)
			if r.Header.Get("Authorization") == "" {
				ClearSessionCookie(w)
			}
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			slog.Warn("resolving session", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
	})
}
