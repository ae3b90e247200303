// Package geocode resolves street addresses to coordinates with the public
// Nominatim search API and builds OpenStreetMap embed URLs for them.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultSearchURL is the public Nominatim search endpoint.
	DefaultSearchURL = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent = "ark-property/1.0"
)

// ErrNoResults is returned when the lookup finds no candidates.
var ErrNoResults = errors.New("no results for address")

var tracer = otel.Tracer("github.com/arkproperty/ark/internal/geocode")

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Client looks up addresses. The zero value is not usable; call NewClient.
type Client struct {
	httpClient *http.Client
	userAgent  string

	// Overridable for testing.
	searchURL string
}

// NewClient creates a geocoding client. Nominatim's usage policy requires an
// identifying User-Agent; an empty userAgent falls back to a default.
func NewClient(searchURL, userAgent string, timeout time.Duration) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		searchURL:  searchURL,
	}
}

// searchResult is one candidate from the Nominatim search API.
// Coordinates arrive as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup returns the coordinates of the first candidate for address.
// Candidates are not validated or disambiguated.
func (c *Client) Lookup(ctx context.Context, address string) (coords *Coordinates, err error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	ctx, span := tracer.Start(ctx, "geocode.Lookup", trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	params := url.Values{
		"format": {"json"},
		"q":      {address},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing body: %w", closeErr)
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}

	return &Coordinates{Lat: lat, Lon: lon}, nil
}
