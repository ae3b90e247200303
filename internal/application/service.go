package application

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/property"
)

// Service provides the application workflow on top of the stores.
type Service struct {
	apps  Store
	props property.Store
}

// NewService creates an application service.
func NewService(apps Store, props property.Store) *Service {
	return &Service{apps: apps, props: props}
}

// Submit files an application from user for the given property.
func (s *Service) Submit(ctx context.Context, user *auth.User, propertyID string, form Form) (*Application, error) {
	if user == nil {
		return nil, ErrLoginRequiredToApply
	}

	prop, err := s.props.Get(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}
	if prop.IsOwner(user.ID) {
		return nil, ErrOwnProperty
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	app, err := s.apps.Insert(ctx, &Application{
		PropertyID:  prop.ID,
		ApplicantID: user.ID,
		Email:       form.Email,
		Phone:       form.Phone,
		Message:     form.Message,
		Status:      StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("submitting application: %w", err)
	}

	slog.Info("application submitted", "application", app.ID, "property", prop.ID, "applicant", user.ID)
	return app, nil
}

// ListSent returns the applications user has submitted, newest first.
func (s *Service) ListSent(ctx context.Context, user *auth.User) ([]*Application, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	apps, err := s.apps.ListByApplicant(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading sent applications: %w", err)
	}
	return apps, nil
}

// ListReceived returns applications for properties user owns, newest first.
func (s *Service) ListReceived(ctx context.Context, user *auth.User) ([]*Application, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	apps, err := s.apps.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading received applications: %w", err)
	}
	return apps, nil
}

// Overview loads both lists concurrently.
func (s *Service) Overview(ctx context.Context, user *auth.User) (*Overview, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	var ov Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apps, err := s.ListReceived(gctx, user)
		ov.Received = apps
		return err
	})
	g.Go(func() error {
		apps, err := s.ListSent(gctx, user)
		ov.Sent = apps
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

// UpdateStatus approves or rejects an application on behalf of the property owner.
// Setting the status the application already has returns it unchanged.
func (s *Service) UpdateStatus(ctx context.Context, user *auth.User, id string, status Status) (*Application, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ownerID := ""
	if app.Property != nil {
		ownerID = app.Property.OwnerID
	}
	if ownerID == "" {
		prop, err := s.props.Get(ctx, app.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("loading property: %w", err)
		}
		ownerID = prop.OwnerID
	}
	if ownerID != user.ID {
		return nil, ErrNotOwner
	}

	if app.Status == status {
		return app, nil
	}

	updated, err := s.apps.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	slog.Info("application status updated", "application", id, "status", status, "owner", user.ID)
	return updated, nil
}
