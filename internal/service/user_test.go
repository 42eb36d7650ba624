package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/auth"
	"github.com/sakif/juicebox/internal/jobs"
)

// userFixture bundles a UserService with the mocks behind it so tests can
// assert on side effects (stored users, issued tokens, enqueued jobs).
type userFixture struct {
	svc    *UserService
	users  *mockUserRepo
	tokens *auth.TokenService
	queue  *recordQueue
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := &mockUserRepo{}
	tokens := auth.NewTokenService(newMockTokenRepo())
	queue := &recordQueue{}
	svc := NewUserService(users, tokens, auth.NewPasswordServiceForTest(4), queue, testLogger())
	return &userFixture{svc: svc, users: users, tokens: tokens, queue: queue}
}

func (f *userFixture) register(t *testing.T, email string) string {
	t.Helper()
	user, err := f.svc.Register(context.Background(), "Jane", email, "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user.ID
}

func TestRegister(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.Register(context.Background(), "  Jane  ", "jane@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Name != "Jane" {
		t.Errorf("Name = %q, want trimmed %q", user.Name, "Jane")
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Error("password was not hashed")
	}
	if user.ID == "" {
		t.Error("Register() returned a user without an ID")
	}
}

func TestRegister_EnqueuesWelcomeEmail(t *testing.T) {
	f := newUserFixture(t)
	userID := f.register(t, "jane@example.com")

	if len(f.queue.jobs) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(f.queue.jobs))
	}
	job := f.queue.jobs[0]
	if job.kind != jobs.KindWelcomeEmail {
		t.Errorf("kind = %q, want %q", job.kind, jobs.KindWelcomeEmail)
	}
	payload, ok := job.payload.(jobs.WelcomePayload)
	if !ok {
		t.Fatalf("payload has type %T, want WelcomePayload", job.payload)
	}
	if payload.UserID != userID {
		t.Errorf("payload.UserID = %q, want %q", payload.UserID, userID)
	}
}

func TestRegister_EnqueueFailureStillSucceeds(t *testing.T) {
	f := newUserFixture(t)
	f.queue.err = errors.New("queue down")

	// Notification delivery is fire-and-forget: the account is created even
	// when the enqueue fails.
	user, err := f.svc.Register(context.Background(), "Jane", "jane@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v, want success despite enqueue failure", err)
	}
	if _, err := f.users.GetByID(context.Background(), user.ID); err != nil {
		t.Errorf("user was not stored: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name         string
		userName     string
		email        string
		password     string
		confirmation string
		wantField    string
		wantMsg      string
	}{
		{
			name:         "missing name",
			email:        "jane@example.com",
			password:     "password123",
			confirmation: "password123",
			wantField:    "name",
			wantMsg:      "The name field is required.",
		},
		{
			name:         "missing email",
			userName:     "Jane",
			password:     "password123",
			confirmation: "password123",
			wantField:    "email",
			wantMsg:      "The email field is required.",
		},
		{
			name:         "malformed email",
			userName:     "Jane",
			email:        "not-an-email",
			password:     "password123",
			confirmation: "password123",
			wantField:    "email",
			wantMsg:      "The email must be a valid email address.",
		},
		{
			name:         "missing password",
			userName:     "Jane",
			email:        "jane@example.com",
			wantField:    "password",
			wantMsg:      "The password field is required.",
		},
		{
			name:         "short password",
			userName:     "Jane",
			email:        "jane@example.com",
			password:     "short12",
			confirmation: "short12",
			wantField:    "password",
			wantMsg:      "The password must be at least 8 characters.",
		},
		{
			name:         "confirmation mismatch",
			userName:     "Jane",
			email:        "jane@example.com",
			password:     "password123",
			confirmation: "password124",
			wantField:    "password",
			wantMsg:      "The password confirmation does not match.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)

			_, err := f.svc.Register(context.Background(), tt.userName, tt.email, tt.password, tt.confirmation)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error is not an AppError: %v", err)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", appErr.Message, tt.wantMsg)
			}

			if len(f.users.users) != 0 {
				t.Error("invalid registration created a user")
			}
			if len(f.queue.jobs) != 0 {
				t.Error("invalid registration enqueued a job")
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "jane@example.com")

	_, err := f.svc.Register(context.Background(), "Impostor", "jane@example.com", "password123", "password123")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Register() with taken email error = %v, want ErrValidation", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not an AppError: %v", err)
	}
	if appErr.Message != "The email has already been taken." {
		t.Errorf("Message = %q, want the duplicate-email message", appErr.Message)
	}

	if len(f.users.users) != 1 {
		t.Errorf("store holds %d users, want 1", len(f.users.users))
	}
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)
	userID := f.register(t, "jane@example.com")

	token, err := f.svc.Login(context.Background(), "jane@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// The issued token authenticates as the registered user.
	gotID, err := f.tokens.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if gotID != userID {
		t.Errorf("token belongs to %q, want %q", gotID, userID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "jane@example.com")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "password123"},
		{"wrong password", "jane@example.com", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
			}

			// Unknown email and wrong password must be indistinguishable.
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error is not an AppError: %v", err)
			}
			if appErr.Message != "Unauthorized. Invalid credentials." {
				t.Errorf("Message = %q, want the fixed credentials message", appErr.Message)
			}
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.svc.Login(context.Background(), "", "password123"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() without email error = %v, want ErrValidation", err)
	}
	if _, err := f.svc.Login(context.Background(), "jane@example.com", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() without password error = %v, want ErrValidation", err)
	}
}

func TestLogout_RevokesEverySession(t *testing.T) {
	f := newUserFixture(t)
	userID := f.register(t, "jane@example.com")

	first, err := f.svc.Login(context.Background(), "jane@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	second, err := f.svc.Login(context.Background(), "jane@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := f.svc.Logout(context.Background(), userID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	for _, token := range []string{first, second} {
		if _, err := f.tokens.Validate(context.Background(), token); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("token still valid after logout: %v", err)
		}
	}
}

func TestUserGet(t *testing.T) {
	f := newUserFixture(t)
	userID := f.register(t, "jane@example.com")

	got, err := f.svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Email != "jane@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "jane@example.com")
	}
}

func TestUserGet_NotFound(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.svc.Get(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUserList(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "a@example.com")
	f.register(t, "b@example.com")

	page, err := f.svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Data) != 2 {
		t.Errorf("List() returned %d users, want 2", len(page.Data))
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	if page.PerPage != PerPage {
		t.Errorf("PerPage = %d, want %d", page.PerPage, PerPage)
	}
}
