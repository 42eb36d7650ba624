// Package weather is the HTTP client for the upstream OpenWeather API.
//
// The client is a state-free request/response mapper: one outbound attempt
// per call, no retry, no caching. Upstream failures are logged with the
// location and the raw upstream body, then translated into domain errors so
// nothing above this package knows upstream status codes.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds the outbound call when no timeout is configured.
// The upstream has no SLA we control; without a bound a stalled upstream
// would pin request goroutines indefinitely.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an upstream error body is read for logging.
const maxErrorBody = 4 << 10

// Messages surfaced for upstream failures. The generic one is also what
// production callers see regardless of the real cause.
const (
	MsgInvalidKey  = "Invalid API key. Please check your API key and try again."
	MsgNotFound    = "Location not found."
	MsgUnavailable = "Unable to fetch weather data. Please try again later."
	MsgMissingKey  = "API Key is missing"
)

// Config holds the upstream connection settings.
type Config struct {
	BaseURL string        // e.g. "https://api.openweathermap.org"
	APIKey  string        // upstream credential; empty is a configuration fault
	Timeout time.Duration // outbound timeout; DefaultTimeout when zero
}

// Client calls the upstream current-weather endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a weather client with a bounded-timeout HTTP client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch retrieves current weather for location and returns the upstream JSON
// body verbatim — no schema is imposed on the upstream payload.
//
// Error mapping:
//
//	missing API key  → apperror.ErrConfig (no call is attempted)
//	upstream 401     → apperror.ErrUpstream, "invalid API key" detail
//	upstream 404     → apperror.ErrNotFound, "Location not found."
//	anything else    → apperror.ErrUpstream, generic detail
func (c *Client) Fetch(ctx context.Context, location string) (json.RawMessage, error) {
	if c.cfg.APIKey == "" {
		c.logger.Error("weather API key is not configured")
		return nil, configError()
	}

	endpoint := c.cfg.BaseURL + "/data/2.5/weather"

	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", c.cfg.APIKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("weather upstream unreachable",
			slog.String("location", location),
			slog.String("error", err.Error()),
		)
		return nil, unavailableError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.mapFailure(resp, location)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("weather response read failed",
			slog.String("location", location),
			slog.String("error", err.Error()),
		)
		return nil, unavailableError(err.Error())
	}

	return json.RawMessage(body), nil
}

// mapFailure logs a non-success upstream response and converts it to the
// matching domain error.
func (c *Client) mapFailure(resp *http.Response, location string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	body := string(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.logger.Error("weather API rejected the key",
			slog.String("location", location),
			slog.String("upstream_body", body),
		)
		return invalidKeyError(body)

	case http.StatusNotFound:
		c.logger.Error("weather location not found",
			slog.String("location", location),
			slog.String("upstream_body", body),
		)
		return locationNotFoundError()

	default:
		c.logger.Error("weather API error",
			slog.Int("status", resp.StatusCode),
			slog.String("location", location),
			slog.String("upstream_body", body),
		)
		return unavailableError(body)
	}
}
