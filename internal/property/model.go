// Package property provides the property listing model and its local store.
package property

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultImage is shown when a listing has no photos.
const DefaultImage = "/static/default-property.svg"

// ErrNotFound is returned when no property has the requested ID.
var ErrNotFound = errors.New("property not found")

// Property is a real-estate listing.
type Property struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Price       int64      `json:"price" db:"price"`
	Bedrooms    int        `json:"bedrooms" db:"bedrooms"`
	Bathrooms   float64    `json:"bathrooms" db:"bathrooms"`
	SquareFeet  int64      `json:"square_feet" db:"square_feet"`
	Address     string     `json:"address" db:"address"`
	Images      StringList `json:"images" db:"images"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// MainImage returns the image at index i, falling back to the first image
// and then to DefaultImage.
func (p *Property) MainImage(i int) string {
	if i >= 0 && i < len(p.Images) {
		return p.Images[i]
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return DefaultImage
}

// IsOwner reports whether userID owns the listing.
func (p *Property) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// Store reads and writes properties.
type Store interface {
	Get(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context) ([]*Property, error)
	Insert(ctx context.Context, p *Property) (*Property, error)
}

// StringList is a list of strings stored as a JSON array in a text column.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scanning string list: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
