package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/arkproperty/ark/internal/application"
)

var _ application.Store = (*ApplicationStore)(nil)

const (
	applicationsPath = "/rest/v1/property_applications"

	selectWithProperty      = "*,property:properties(title,address,owner_id)"
	selectWithOwnedProperty = "*,property:properties!inner(title,address,owner_id)"
)

// ApplicationStore reads and writes the property_applications table.
type ApplicationStore struct {
	c *Client
}

// Applications returns the application store backed by c.
func (c *Client) Applications() *ApplicationStore {
	return &ApplicationStore{c: c}
}

type applicationInsert struct {
	PropertyID  string             `json:"property_id"`
	ApplicantID string             `json:"applicant_id"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Message     string             `json:"message"`
	Status      application.Status `json:"status,omitempty"`
}

// Insert creates an application and returns it with its property summary.
func (s *ApplicationStore) Insert(ctx context.Context, a *application.Application) (*application.Application, error) {
	var rows []*application.Application
	err := s.c.do(ctx, request{
		method: http.MethodPost,
		path:   applicationsPath,
		query:  url.Values{"select": {selectWithProperty}},
		body: applicationInsert{
			PropertyID:  a.PropertyID,
			ApplicantID: a.ApplicantID,
			Email:       a.Email,
			Phone:       a.Phone,
			Message:     a.Message,
			Status:      a.Status,
		},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("inserting application: empty response")
	}
	return rows[0], nil
}

// Get returns the application with the given ID.
func (s *ApplicationStore) Get(ctx context.Context, id string) (*application.Application, error) {
	if !validID(id) {
		return nil, application.ErrNotFound
	}
	rows, err := s.list(ctx, url.Values{
		"select": {selectWithProperty},
		"id":     {eq(id)},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, application.ErrNotFound
	}
	return rows[0], nil
}

// ListByApplicant returns applications sent by applicantID, newest first.
func (s *ApplicationStore) ListByApplicant(ctx context.Context, applicantID string) ([]*application.Application, error) {
	return s.list(ctx, url.Values{
		"select":       {selectWithProperty},
		"applicant_id": {eq(applicantID)},
		"order":        {"created_at.desc"},
	})
}

// ListByOwner returns applications for ownerID's properties, newest first.
func (s *ApplicationStore) ListByOwner(ctx context.Context, ownerID string) ([]*application.Application, error) {
	return s.list(ctx, url.Values{
		"select":            {selectWithOwnedProperty},
		"property.owner_id": {eq(ownerID)},
		"order":             {"created_at.desc"},
	})
}

// UpdateStatus writes a new status and returns the updated application.
// A row hidden by row-level security reports ErrNotFound.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status application.Status) (*application.Application, error) {
	if !validID(id) {
		return nil, application.ErrNotFound
	}
	var rows []*application.Application
	err := s.c.do(ctx, request{
		method: http.MethodPatch,
		path:   applicationsPath,
		query:  url.Values{"id": {eq(id)}, "select": {selectWithProperty}},
		body:   map[string]application.Status{"status": status},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("updating application %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, application.ErrNotFound
	}
	return rows[0], nil
}

func (s *ApplicationStore) list(ctx context.Context, q url.Values) ([]*application.Application, error) {
	var rows []*application.Application
	if err := s.c.do(ctx, request{method: http.MethodGet, path: applicationsPath, query: q}, &rows); err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return rows, nil
}
