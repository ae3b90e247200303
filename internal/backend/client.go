// Package backend talks to the hosted backend: a PostgREST data API under
// /rest/v1 and a GoTrue auth API under /auth/v1.
//
// Row-level security is evaluated by the backend. Every request carries the
// project's anon key as apikey and, as the bearer token, the signed-in user's
// access token from the request context (falling back to the anon key).
package backend

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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/arkproperty/ark/internal/auth"
)

var tracer = otel.Tracer("github.com/arkproperty/ark/internal/backend")

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the hosted backend.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// New creates a backend client for the project at baseURL.
func New(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// request describes one call to the backend.
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	prefer string
	token  string // overrides the context token when set
}

// do executes req and decodes a 2xx JSON body into result.
func (c *Client) do(ctx context.Context, req request, result interface{}) (err error) {
	ctx, span := tracer.Start(ctx, "backend "+req.method+" "+req.path, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", req.method),
		attribute.String("url.path", req.path),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	token := req.token
	if token == "" {
		token = auth.AccessToken(ctx)
	}
	if token == "" {
		token = c.anonKey
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing backend response body", "error", cerr)
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts the human-readable message from a PostgREST or
// GoTrue error body.
func errorMessage(status int, body []byte) string {
	var e struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		for _, m := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return http.StatusText(status)
}

// validID reports whether id can name a row. Every primary key is a UUID,
// and PostgREST answers 400 rather than an empty result for anything else.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// eq builds a PostgREST equality filter value.
func eq(v string) string {
	return "eq." + v
}
