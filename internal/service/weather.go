package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/sakif/juicebox/internal/apperror"
)

// DefaultLocation is used when a caller does not name a location, and by
// the hourly refresh scheduler.
const DefaultLocation = "Perth"

// productionEnv is the APP_ENV value that suppresses upstream error detail
// in responses.
const productionEnv = "production"

// safeRetryMessage replaces upstream detail in production responses.
const safeRetryMessage = "Please try again later."

// WeatherFetcher is the slice of the upstream client this service needs.
type WeatherFetcher interface {
	Fetch(ctx context.Context, location string) (json.RawMessage, error)
}

// WeatherService validates requests and shapes upstream failures for
// callers. The upstream payload itself passes through untouched.
type WeatherService struct {
	upstream   WeatherFetcher
	production bool
	logger     *slog.Logger
}

// NewWeatherService creates a WeatherService. env is the APP_ENV value;
// anything other than "production" surfaces raw upstream error detail to
// callers, which is useful in development and wrong in production.
func NewWeatherService(upstream WeatherFetcher, env string, logger *slog.Logger) *WeatherService {
	return &WeatherService{
		upstream:   upstream,
		production: env == productionEnv,
		logger:     logger,
	}
}

// Fetch returns the upstream weather payload for location, verbatim.
//
// An empty location is rejected before any network call — callers that want
// the default must pass DefaultLocation explicitly. Exactly one upstream
// attempt is made; transient failures surface immediately as errors.
func (s *WeatherService) Fetch(ctx context.Context, location string) (json.RawMessage, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperror.BadRequest("Invalid location provided.")
	}

	data, err := s.upstream.Fetch(ctx, location)
	if err != nil {
		return nil, s.redact(err)
	}

	return data, nil
}

// redact strips server-side detail from 500-class weather errors when
// running in production. The full detail has already been logged by the
// client; callers just get a generic retry-later message.
func (s *WeatherService) redact(err error) error {
	if !s.production {
		return err
	}
	if !errors.Is(err, apperror.ErrUpstream) && !errors.Is(err, apperror.ErrConfig) {
		return err
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err
	}

	return &apperror.AppError{
		Err:     appErr.Err,
		Message: appErr.Message,
		Detail:  safeRetryMessage,
	}
}
