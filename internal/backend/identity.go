package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/arkproperty/ark/internal/auth"
)

var _ auth.Provider = (*Identity)(nil)

// Identity signs users in against the hosted auth API.
type Identity struct {
	c   *Client
	now func() time.Time
}

// Identity returns the auth provider backed by c.
func (c *Client) Identity() *Identity {
	return &Identity{c: c, now: time.Now}
}

// gotrueUser is the user object returned by the auth API.
type gotrueUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		DisplayName string `json:"display_name"`
		FullName    string `json:"full_name"`
	} `json:"user_metadata"`
}

func (u *gotrueUser) toUser() *auth.User {
	name := u.UserMetadata.DisplayName
	if name == "" {
		name = u.UserMetadata.FullName
	}
	return &auth.User{ID: u.ID, Email: u.Email, DisplayName: name}
}

// SignIn exchanges an email and password for an access token.
func (p *Identity) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	var resp struct {
		AccessToken string     `json:"access_token"`
		ExpiresIn   int64      `json:"expires_in"`
		User        gotrueUser `json:"user"`
	}
	err := p.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && (be.StatusCode == http.StatusBadRequest || be.StatusCode == http.StatusUnauthorized) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("signing in: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("signing in: response has no access token")
	}

	return &auth.Session{
		AccessToken: resp.AccessToken,
		ExpiresAt:   p.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User:        resp.User.toUser(),
	}, nil
}

// User returns the user that owns accessToken.
func (p *Identity) User(ctx context.Context, accessToken string) (*auth.User, error) {
	if accessToken == "" {
		return nil, auth.ErrInvalidToken
	}
	var u gotrueUser
	err := p.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  accessToken,
	}, &u)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && (be.StatusCode == http.StatusUnauthorized || be.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", auth.ErrInvalidToken, be.Message)
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if u.ID == "" {
		return nil, auth.ErrInvalidToken
	}
	return u.toUser(), nil
}
