package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// KindWelcomeEmail is enqueued after a successful registration.
const KindWelcomeEmail = "welcome_email"

// WelcomePayload is the JSON body of a welcome-email job. Only the user ID
// is carried; the handler re-reads the user at delivery time so a name or
// email edit between enqueue and delivery is picked up.
type WelcomePayload struct {
	UserID string `json:"user_id"`
}

// Mailer delivers mail to a user. The real SMTP transport is deployment
// infrastructure; the application only depends on this interface.
type Mailer interface {
	SendWelcome(ctx context.Context, user *model.User) error
}

// LogMailer is the default Mailer: it writes the delivery to the log
// instead of sending anything. Used in development and tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a log-backed Mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ Mailer = (*LogMailer)(nil)

// SendWelcome logs the welcome message that would have been sent.
func (m *LogMailer) SendWelcome(_ context.Context, user *model.User) error {
	m.logger.Info("welcome email sent",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

// NewWelcomeHandler returns the HandlerFunc for KindWelcomeEmail jobs:
// load the user, deliver through the mailer.
func NewWelcomeHandler(users repository.UserRepository, mailer Mailer, logger *slog.Logger) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var p WelcomePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decoding welcome payload: %w", err)
		}
		if p.UserID == "" {
			return fmt.Errorf("welcome payload has no user_id")
		}

		user, err := users.GetByID(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("loading user %s: %w", p.UserID, err)
		}

		if err := mailer.SendWelcome(ctx, user); err != nil {
			return fmt.Errorf("sending welcome email to %s: %w", user.Email, err)
		}

		logger.Info("welcome notification delivered", slog.String("userID", user.ID))
		return nil
	}
}
