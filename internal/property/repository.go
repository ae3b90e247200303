package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ Store = (*Repository)(nil)

// Repository is the SQLite-backed Store used when no hosted backend is configured.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, title, description, price, bedrooms, bathrooms, square_feet, address, images, owner_id, created_at`

// Insert adds a new property and returns it with its generated ID.
func (r *Repository) Insert(ctx context.Context, p *Property) (*Property, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if p.OwnerID == "" {
		return nil, fmt.Errorf("owner is required")
	}

	row := *p
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx,
		`INSERT INTO properties (`+selectColumns+`)
		 VALUES (:id, :title, :description, :price, :bedrooms, :bathrooms, :square_feet, :address, :images, :owner_id, :created_at)`,
		&row,
	); err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	return r.Get(ctx, row.ID)
}

// Get returns a property by its ID.
func (r *Repository) Get(ctx context.Context, id string) (*Property, error) {
	var p Property
	err := r.db.GetContext(ctx, &p, `SELECT `+selectColumns+` FROM properties WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %s: %w", id, err)
	}
	return &p, nil
}

// List returns all properties, newest first.
func (r *Repository) List(ctx context.Context) ([]*Property, error) {
	var props []*Property
	if err := r.db.SelectContext(ctx, &props,
		`SELECT `+selectColumns+` FROM properties ORDER BY created_at DESC, rowid DESC`,
	); err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	return props, nil
}
