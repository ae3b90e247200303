package contact

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/arkproperty/ark/internal/db"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"complete", Message{Name: "Ann", Email: "ann@example.com", Message: "Hello"}, false},
		{"missing name", Message{Email: "ann@example.com", Message: "Hello"}, true},
		{"missing email", Message{Name: "Ann", Message: "Hello"}, true},
		{"blank message", Message{Name: "Ann", Email: "ann@example.com", Message: "   "}, true},
		{"bad email", Message{Name: "Ann", Email: "ann", Message: "Hello"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("err = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateTrims(t *testing.T) {
	m := Message{Name: " Ann ", Email: " ann@example.com", Message: "Hi\n"}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if m.Name != "Ann" || m.Email != "ann@example.com" || m.Message != "Hi" {
		t.Errorf("not trimmed: %+v", m)
	}
}

func TestValidateStoresBareAddress(t *testing.T) {
	m := Message{Name: "Bob", Email: "Bob <bob@example.com>", Message: "Hello"}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if m.Email != "bob@example.com" {
		t.Errorf("email = %q, want bob@example.com", m.Email)
	}
}

func TestInsertAndList(t *testing.T) {
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	repo := NewRepository(d)
	ctx := context.Background()

	m := &Message{Name: "Ann", Email: "ann@example.com", Message: "When are you open?"}
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() {
		t.Errorf("expected ID and timestamp, got %+v", m)
	}

	msgs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Message != "When are you open?" {
		t.Fatalf("msgs = %+v", msgs)
	}
}
