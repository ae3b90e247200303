// Package application implements the property application workflow:
// prospective renters or buyers apply to a listing, and the listing's owner
// approves or rejects the application.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Status is where an application stands with the property owner.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatus returns true if s is a known status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

var (
	ErrNotFound             = errors.New("application not found")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrLoginRequiredToApply = errors.New("you must be logged in to submit an application")
	ErrOwnProperty          = errors.New("you cannot apply to your own property")
	ErrNotOwner             = errors.New("only the property owner can review applications")
	ErrInvalidStatus        = errors.New("status must be approved or rejected")
	ErrInvalidForm          = errors.New("invalid application")
)

// PropertySummary is the slice of the listing shown next to an application.
type PropertySummary struct {
	Title   string `json:"title"`
	Address string `json:"address"`
	OwnerID string `json:"owner_id,omitempty"`
}

// Application is an inquiry from an applicant about a property.
type Application struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"property_id"`
	ApplicantID string           `json:"applicant_id"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Message     string           `json:"message"`
	Status      Status           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	Property    *PropertySummary `json:"property,omitempty"`
}

// Title returns the property title or a placeholder when the join is missing.
func (a *Application) Title() string {
	if a.Property == nil || a.Property.Title == "" {
		return "No Title Available"
	}
	return a.Property.Title
}

// Address returns the property address or a placeholder when the join is missing.
func (a *Application) Address() string {
	if a.Property == nil || a.Property.Address == "" {
		return "No Address Available"
	}
	return a.Property.Address
}

// Form is what an applicant fills in on the property page.
type Form struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (f *Form) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Message = strings.TrimSpace(f.Message)
}

// Validate checks that every field is present and the email parses. A
// display-name address is reduced to its bare form.
func (f *Form) Validate() error {
	var missing []string
	if f.Email == "" {
		missing = append(missing, "email")
	}
	if f.Phone == "" {
		missing = append(missing, "phone")
	}
	if f.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidForm, strings.Join(missing, ", "))
	}
	addr, err := mail.ParseAddress(f.Email)
	if err != nil {
		return fmt.Errorf("%w: invalid email address %q", ErrInvalidForm, f.Email)
	}
	f.Email = addr.Address
	return nil
}

// Overview is the pair of lists shown on the applications page.
type Overview struct {
	Received []*Application `json:"received"`
	Sent     []*Application `json:"sent"`
}

// Store persists applications.
type Store interface {
	Insert(ctx context.Context, a *Application) (*Application, error)
	Get(ctx context.Context, id string) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*Application, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Application, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Application, error)
}
