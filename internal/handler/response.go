package handler

// Response helpers shared by all handlers.
//
// ERROR MAPPING LIVES HERE:
// Services return domain errors (apperror sentinels); this file is the only
// place they are translated to HTTP status codes and the JSON error shape.
// Every error body has at least {"error": "..."}; validation errors add the
// offending field, and 500-class weather errors add an environment-gated
// "message" with detail.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/juicebox/internal/apperror"
)

// ErrorResponse is the standard error body returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must be written
// before the body — once Encode starts writing, the headers are gone.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeRaw sends a pre-serialized JSON payload verbatim. The weather proxy
// uses this so the upstream body passes through byte-for-byte.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response body", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to its status code and error body.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		body := ErrorResponse{Error: appErr.Message}

		switch {
		case errors.Is(err, apperror.ErrBadRequest):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity
			body.Field = appErr.Field
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConfig), errors.Is(err, apperror.ErrUpstream):
			// Detail has already been environment-gated by the service.
			body.Message = appErr.Detail
		}

		writeJSON(w, status, body)
		return
	}

	// Unknown error — never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "An internal error occurred.",
	})
}

// writeInternal sends a 500 with a handler-specific headline and the
// underlying error detail, for persistence faults on mutation endpoints.
func writeInternal(w http.ResponseWriter, headline string, err error) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   headline,
		Message: err.Error(),
	})
}
