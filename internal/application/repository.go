package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ Store = (*Repository)(nil)

// Repository is the SQLite-backed Store used when no hosted backend is configured.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates an application repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// applicationRow is an application joined with its property, as stored locally.
type applicationRow struct {
	ID              string         `db:"id"`
	PropertyID      string         `db:"property_id"`
	ApplicantID     string         `db:"applicant_id"`
	Email           string         `db:"email"`
	Phone           string         `db:"phone"`
	Message         string         `db:"message"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	PropertyTitle   sql.NullString `db:"property_title"`
	PropertyAddress sql.NullString `db:"property_address"`
	PropertyOwnerID sql.NullString `db:"property_owner_id"`
}

func (r *applicationRow) toApplication() *Application {
	a := &Application{
		ID:          r.ID,
		PropertyID:  r.PropertyID,
		ApplicantID: r.ApplicantID,
		Email:       r.Email,
		Phone:       r.Phone,
		Message:     r.Message,
		Status:      Status(r.Status),
		CreatedAt:   r.CreatedAt,
	}
	if r.PropertyTitle.Valid || r.PropertyAddress.Valid {
		a.Property = &PropertySummary{
			Title:   r.PropertyTitle.String,
			Address: r.PropertyAddress.String,
			OwnerID: r.PropertyOwnerID.String,
		}
	}
	return a
}

const selectJoined = `SELECT a.id, a.property_id, a.applicant_id, a.email, a.phone, a.message,
		a.status, a.created_at,
		p.title AS property_title, p.address AS property_address, p.owner_id AS property_owner_id
	FROM property_applications a
	LEFT JOIN properties p ON p.id = a.property_id`

// Insert stores a new application. ID, status and created_at are filled in when empty.
func (r *Repository) Insert(ctx context.Context, a *Application) (*Application, error) {
	row := applicationRow{
		ID:          a.ID,
		PropertyID:  a.PropertyID,
		ApplicantID: a.ApplicantID,
		Email:       a.Email,
		Phone:       a.Phone,
		Message:     a.Message,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.Status == "" {
		row.Status = string(StatusPending)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx,
		`INSERT INTO property_applications
			(id, property_id, applicant_id, email, phone, message, status, created_at)
		 VALUES (:id, :property_id, :applicant_id, :email, :phone, :message, :status, :created_at)`,
		&row,
	); err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}

	return r.Get(ctx, row.ID)
}

// Get returns an application with its property summary.
func (r *Repository) Get(ctx context.Context, id string) (*Application, error) {
	var row applicationRow
	err := r.db.GetContext(ctx, &row, selectJoined+` WHERE a.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying application %s: %w", id, err)
	}
	return row.toApplication(), nil
}

// ListByApplicant returns applications sent by applicantID, newest first.
func (r *Repository) ListByApplicant(ctx context.Context, applicantID string) ([]*Application, error) {
	return r.list(ctx, selectJoined+` WHERE a.applicant_id = ?`, applicantID)
}

// ListByOwner returns applications received for ownerID's properties, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*Application, error) {
	return r.list(ctx, selectJoined+` WHERE p.owner_id = ?`, ownerID)
}

func (r *Repository) list(ctx context.Context, query string, arg string) ([]*Application, error) {
	var rows []*applicationRow
	if err := r.db.SelectContext(ctx, &rows, query+` ORDER BY a.created_at DESC, a.rowid DESC`, arg); err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	apps := make([]*Application, len(rows))
	for i, row := range rows {
		apps[i] = row.toApplication()
	}
	return apps, nil
}

// UpdateStatus writes a new status and returns the updated application.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (*Application, error) {
	if !ValidStatus(string(status)) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE property_applications SET status = ? WHERE id = ?`, string(status), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating application %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, id)
}
