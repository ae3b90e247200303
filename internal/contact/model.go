// Package contact stores messages sent through the Contact page.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid message")

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"id,omitempty" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// Validate trims every field and checks that all of them are present. The
// email is stored as its bare address.
func (m *Message) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)

	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Email == "" {
		missing = append(missing, "email")
	}
	if m.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalid, strings.Join(missing, ", "))
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil {
		return fmt.Errorf("%w: invalid email address %q", ErrInvalid, m.Email)
	}
	m.Email = addr.Address
	return nil
}

// Store persists contact messages.
type Store interface {
	Insert(ctx context.Context, m *Message) error
}
