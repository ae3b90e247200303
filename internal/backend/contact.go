package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/arkproperty/ark/internal/contact"
)

var _ contact.Store = (*ContactStore)(nil)

// ContactStore writes the contact_messages table.
type ContactStore struct {
	c *Client
}

// Contact returns the contact store backed by c.
func (c *Client) Contact() *ContactStore {
	return &ContactStore{c: c}
}

// Insert stores a contact form submission.
func (s *ContactStore) Insert(ctx context.Context, m *contact.Message) error {
	body := struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}{m.Name, m.Email, m.Message}

	err := s.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/contact_messages",
		body:   body,
		prefer: "return=minimal",
	}, nil)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}
