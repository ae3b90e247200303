package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/contact"
)

// ContactStore wraps a contact.Store and emails staff after every stored message.
// Delivery failures are logged; the message is already saved.
type ContactStore struct {
	next   contact.Store
	sender Sender
	to     []string
}

var _ contact.Store = (*ContactStore)(nil)

// NewContactStore creates a notifying contact store.
func NewContactStore(next contact.Store, sender Sender, to []string) *ContactStore {
	return &ContactStore{next: next, sender: sender, to: to}
}

// Insert stores m then notifies staff.
func (s *ContactStore) Insert(ctx context.Context, m *contact.Message) error {
	if err := s.next.Insert(ctx, m); err != nil {
		return err
	}
	if len(s.to) == 0 {
		return nil
	}
	subject := "New contact message from " + m.Name
	if err := s.sender.Send(s.to, subject, FormatContactEmail(m)); err != nil {
		slog.Warn("contact notification failed", "error", err)
	}
	return nil
}

// ApplicationStore wraps an application.Store and emails the applicant when
// an application is received and when its status changes.
type ApplicationStore struct {
	application.Store
	sender  Sender
	siteURL string
}

var _ application.Store = (*ApplicationStore)(nil)

// NewApplicationStore creates a notifying application store. siteURL prefixes
// links in the emails.
func NewApplicationStore(next application.Store, sender Sender, siteURL string) *ApplicationStore {
	return &ApplicationStore{Store: next, sender: sender, siteURL: strings.TrimRight(siteURL, "/")}
}

// Insert stores a and sends the applicant a confirmation.
func (s *ApplicationStore) Insert(ctx context.Context, a *application.Application) (*application.Application, error) {
	app, err := s.Store.Insert(ctx, a)
	if err != nil {
		return nil, err
	}
	s.notify(app, "Application received: "+app.Title(), FormatReceivedEmail(app, s.siteURL))
	return app, nil
}

// UpdateStatus writes the status and tells the applicant the outcome.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status application.Status) (*application.Application, error) {
	app, err := s.Store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.notify(app, fmt.Sprintf("Application %s: %s", app.Status, app.Title()), FormatStatusEmail(app, s.siteURL))
	return app, nil
}

func (s *ApplicationStore) notify(app *application.Application, subject, body string) {
	if app.Email == "" {
		return
	}
	if err := s.sender.Send([]string{app.Email}, subject, body); err != nil {
		slog.Warn("application notification failed", "application", app.ID, "error", err)
	}
}

// FormatContactEmail builds the staff notification for a contact message.
func FormatContactEmail(m *contact.Message) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "A new message arrived through the contact page.\n\n")
	fmt.Fprintf(&buf, "Name:  %s\n", m.Name)
	fmt.Fprintf(&buf, "Email: %s\n\n", m.Email)
	fmt.Fprintf(&buf, "%s\n", m.Message)
	return buf.String()
}

// FormatReceivedEmail builds the applicant's confirmation.
func FormatReceivedEmail(a *application.Application, siteURL string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi,\n\nThanks for applying for %s (%s).\n", a.Title(), a.Address())
	fmt.Fprintf(&buf, "The owner will review your application and you will hear back by email.\n\n")
	fmt.Fprintf(&buf, "Your message:\n  %s\n\n", a.Message)
	writeFooter(&buf, siteURL)
	return buf.String()
}

// FormatStatusEmail builds the applicant's approval or rejection notice.
func FormatStatusEmail(a *application.Application, siteURL string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi,\n\nYour application for %s (%s), sent %s, has been %s.\n",
		a.Title(), a.Address(), humanize.Time(a.CreatedAt), a.Status)
	if a.Status == application.StatusApproved {
		fmt.Fprintf(&buf, "The owner will contact you at %s to arrange next steps.\n", a.Phone)
	}
	fmt.Fprintln(&buf)
	writeFooter(&buf, siteURL)
	return buf.String()
}

func writeFooter(buf *bytes.Buffer, siteURL string) {
	if siteURL != "" {
		fmt.Fprintf(buf, "Track your applications at %s/applications\n\n", siteURL)
	}
	fmt.Fprintf(buf, "Ark Property Solutions\n")
}
