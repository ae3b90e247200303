package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ Store = (*Repository)(nil)

// Repository is the SQLite-backed Store.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a contact message repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a message, assigning its ID and timestamp.
func (r *Repository) Insert(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, created_at)
		 VALUES (:id, :name, :email, :message, :created_at)`,
		m,
	); err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}

// List returns all messages, newest first.
func (r *Repository) List(ctx context.Context) ([]*Message, error) {
	var msgs []*Message
	if err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC, rowid DESC`,
	); err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	return msgs, nil
}
