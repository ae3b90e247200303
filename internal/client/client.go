// Package client provides an HTTP client for the ark JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/property"
)

// Client is an HTTP client for the ark API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token may be empty for anonymous calls.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// ListProperties returns all properties, newest first.
func (c *Client) ListProperties(ctx context.Context) ([]*property.Property, error) {
	var props []*property.Property
	if err := c.get(ctx, "/api/properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns a single property.
func (c *Client) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	var p property.Property
	if err := c.get(ctx, "/api/properties/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Apply submits an application for a property.
func (c *Client) Apply(ctx context.Context, propertyID string, form application.Form) (*application.Application, error) {
	var app application.Application
	if err := c.post(ctx, "/api/properties/"+url.PathEscape(propertyID)+"/applications", form, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Applications returns the caller's received and sent applications.
func (c *Client) Applications(ctx context.Context) (*application.Overview, error) {
	var ov application.Overview
	if err := c.get(ctx, "/api/applications", &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

// SetStatus approves or rejects an application.
func (c *Client) SetStatus(ctx context.Context, id string, status application.Status) (*application.Application, error) {
	body := map[string]application.Status{"status": status}
	var app application.Application
	if err := c.post(ctx, "/api/applications/"+url.PathEscape(id)+"/status", body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess auth.Session
	if err := c.post(ctx, "/api/auth/token", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Me returns the user behind the client's token.
func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	var u auth.User
	if err := c.get(ctx, "/api/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := "server error: " + http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
