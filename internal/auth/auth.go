// Package auth resolves the signed-in user from a session access token.
//
// Identity belongs to the backend: the hosted backend's auth service in
// production, or LocalProvider when running against the local SQLite store.
// The web layer only ever sees the Provider interface.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned when an email/password pair is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when an access token is malformed, expired or unknown.
	ErrInvalidToken = errors.New("invalid or expired session")
)

// User is the identity behind a session.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Name returns the display name, falling back to the email address.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

// Provider signs users in and looks up the user for an access token.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	User(ctx context.Context, accessToken string) (*User, error)
}

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// WithUser returns a context carrying the signed-in user and their access token.
func WithUser(ctx context.Context, u *User, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return WithAccessToken(ctx, accessToken)
}

// WithAccessToken returns a context carrying an access token for backend calls.
func WithAccessToken(ctx context.Context, accessToken string) context.Context {
	return context.WithValue(ctx, tokenKey, accessToken)
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey).(*User)
	return u
}

// AccessToken returns the access token stored in ctx, if any.
func AccessToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
