package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// memUserRepo holds a fixed set of users for handler tests.
type memUserRepo struct {
	users map[string]*model.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (m *memUserRepo) Create(context.Context, *model.User) error { return nil }

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, apperror.NotFound("User")
}

func (m *memUserRepo) List(context.Context, repository.ListOptions) ([]model.User, error) {
	return nil, nil
}

func (m *memUserRepo) Count(context.Context) (int, error) { return 0, nil }

// recordMailer captures every delivery.
type recordMailer struct {
	sent []*model.User
}

func (m *recordMailer) SendWelcome(_ context.Context, user *model.User) error {
	m.sent = append(m.sent, user)
	return nil
}

func TestWelcomeHandler_DeliversToStoredUser(t *testing.T) {
	users := &memUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Name: "Jane", Email: "jane@example.com"},
	}}
	mailer := &recordMailer{}
	handler := NewWelcomeHandler(users, mailer, testLogger())

	payload, err := json.Marshal(WelcomePayload{UserID: "user-1"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	if err := handler(context.Background(), payload); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("mailer delivered %d messages, want 1", len(mailer.sent))
	}
	if mailer.sent[0].Email != "jane@example.com" {
		t.Errorf("delivered to %q, want %q", mailer.sent[0].Email, "jane@example.com")
	}
}

func TestWelcomeHandler_Failures(t *testing.T) {
	users := &memUserRepo{users: map[string]*model.User{}}
	mailer := &recordMailer{}
	handler := NewWelcomeHandler(users, mailer, testLogger())

	tests := []struct {
		name    string
		payload []byte
	}{
		{"malformed payload", []byte(`{not json`)},
		{"missing user_id", []byte(`{}`)},
		{"user deleted between enqueue and delivery", []byte(`{"user_id":"ghost"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := handler(context.Background(), tt.payload); err == nil {
				t.Error("handler succeeded, want an error")
			}
		})
	}

	if len(mailer.sent) != 0 {
		t.Errorf("mailer delivered %d messages for failing jobs, want 0", len(mailer.sent))
	}
}
