package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Post"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("Unauthorized. Invalid credentials."),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("you do not own this post"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Config wraps ErrConfig",
			err:       Config("weather service unavailable", "API key is missing"),
			target:    ErrConfig,
			wantMatch: true,
		},
		{
			name:      "Upstream wraps ErrUpstream",
			err:       Upstream("unable to fetch weather data", `{"cod":500}`),
			target:    ErrUpstream,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("Post"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "BadRequest does NOT match ErrValidation",
			err:       BadRequest("Invalid location provided."),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIs_SurvivesWrapping(t *testing.T) {
	// Services wrap repository errors with fmt.Errorf("...: %w", err).
	// errors.Is must still find the sentinel through the extra layer.
	wrapped := fmt.Errorf("updating post: %w", NotFound("Post"))

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is() did not find ErrNotFound through a wrapped error")
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("Post")
	if err.Error() != "Post not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Post not found")
	}
}

func TestAppError_UnwrapAs(t *testing.T) {
	wrapped := fmt.Errorf("registering user: %w", ValidationFailed("email", "The email has already been taken."))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() failed to extract *AppError")
	}
	if appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
}
