package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/arkproperty/ark/internal/property"
)

var _ property.Store = (*PropertyStore)(nil)

// PropertyStore reads and writes the properties table.
type PropertyStore struct {
	c *Client
}

// Properties returns the property store backed by c.
func (c *Client) Properties() *PropertyStore {
	return &PropertyStore{c: c}
}

// propertyInsert omits server-generated columns when they are unset.
type propertyInsert struct {
	ID          string              `json:"id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       int64               `json:"price"`
	Bedrooms    int                 `json:"bedrooms"`
	Bathrooms   float64             `json:"bathrooms"`
	SquareFeet  int64               `json:"square_feet"`
	Address     string              `json:"address"`
	Images      property.StringList `json:"images"`
	OwnerID     string              `json:"owner_id"`
}

// Get returns the property with the given ID.
func (s *PropertyStore) Get(ctx context.Context, id string) (*property.Property, error) {
	if !validID(id) {
		return nil, property.ErrNotFound
	}
	var rows []*property.Property
	err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/properties",
		query:  url.Values{"select": {"*"}, "id": {eq(id)}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching property %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, property.ErrNotFound
	}
	return rows[0], nil
}

// List returns every property visible to the caller, newest first.
func (s *PropertyStore) List(ctx context.Context) ([]*property.Property, error) {
	var rows []*property.Property
	err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/properties",
		query:  url.Values{"select": {"*"}, "order": {"created_at.desc"}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	return rows, nil
}

// Insert creates a property and returns the stored row.
func (s *PropertyStore) Insert(ctx context.Context, p *property.Property) (*property.Property, error) {
	images := p.Images
	if images == nil {
		images = property.StringList{}
	}
	var rows []*property.Property
	err := s.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/properties",
		body: propertyInsert{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Bedrooms:    p.Bedrooms,
			Bathrooms:   p.Bathrooms,
			SquareFeet:  p.SquareFeet,
			Address:     p.Address,
			Images:      images,
			OwnerID:     p.OwnerID,
		},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("inserting property: empty response")
	}
	return rows[0], nil
}
