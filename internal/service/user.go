package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/auth"
	"github.com/sakif/juicebox/internal/jobs"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// MaxNameLength bounds the account name.
const MaxNameLength = 255

// UserPage is the pagination envelope for user listings.
type UserPage struct {
	Data        []model.User `json:"data"`
	CurrentPage int          `json:"current_page"`
	PerPage     int          `json:"per_page"`
	Total       int          `json:"total"`
}

// UserService handles registration, authentication, and user lookups.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	queue     jobs.Queue
	logger    *slog.Logger
}

// NewUserService creates a UserService with all dependencies injected.
func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	queue jobs.Queue,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		queue:     queue,
		logger:    logger,
	}
}

// Register validates the input, stores the account with a bcrypt hash, and
// enqueues the welcome notification.
//
// The notification is strictly fire-and-forget from the caller's point of
// view: the enqueue happens after the user row is committed, and if even
// the enqueue fails we log it and still return success — registration never
// blocks on or fails because of notification delivery.
func (s *UserService) Register(ctx context.Context, name, email, password, passwordConfirmation string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "The name field is required.")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("The name may not be greater than %d characters.", MaxNameLength))
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "The password field is required.")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("The password must be at least %d characters.", MinPasswordLength))
	}
	if password != passwordConfirmation {
		return nil, apperror.ValidationFailed("password", "The password confirmation does not match.")
	}

	// Friendly duplicate check. The UNIQUE constraint in the store is the
	// real guarantee — a concurrent registration that slips past this check
	// still comes back as the same validation error.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.ValidationFailed("email", "The email has already been taken.")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	if err := s.queue.Enqueue(ctx, jobs.KindWelcomeEmail, jobs.WelcomePayload{UserID: user.ID}); err != nil {
		s.logger.Error("failed to enqueue welcome email",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// Login verifies the credentials and issues a fresh bearer token.
//
// Unknown email and wrong password produce the identical error, so the
// endpoint cannot be used to enumerate registered addresses.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return "", apperror.ValidationFailed("email", "The email field is required.")
	}
	if password == "" {
		return "", apperror.ValidationFailed("password", "The password field is required.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("Unauthorized. Invalid credentials.")
		}
		return "", fmt.Errorf("looking up user for login: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized("Unauthorized. Invalid credentials.")
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to issue token",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return token, nil
}

// Logout revokes every outstanding token for the caller, ending all of
// their sessions at once — not just the one that made this request.
func (s *UserService) Logout(ctx context.Context, callerID string) error {
	if callerID == "" {
		return apperror.Unauthorized("Unauthorized")
	}

	if err := s.tokens.RevokeAll(ctx, callerID); err != nil {
		s.logger.Error("failed to revoke tokens",
			slog.String("userID", callerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("revoking tokens: %w", err)
	}

	s.logger.Info("user logged out", slog.String("userID", callerID))
	return nil
}

// Get returns the user or apperror.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("User")
	}

	return s.users.GetByID(ctx, id)
}

// List returns one fixed-size page of users in registration order.
func (s *UserService) List(ctx context.Context, page int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}

	users, err := s.users.List(ctx, repository.ListOptions{
		Limit:  PerPage,
		Offset: (page - 1) * PerPage,
	})
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("counting users: %w", err)
	}

	return &UserPage{
		Data:        users,
		CurrentPage: page,
		PerPage:     PerPage,
		Total:       total,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "The email field is required.")
	}
	// net/mail accepts "Name <addr>" forms; require the parsed address to
	// round-trip to the input so only a bare address passes.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.ValidationFailed("email", "The email must be a valid email address.")
	}
	return nil
}
