package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/juicebox/internal/service"
)

// WeatherHandler serves the weather proxy endpoint.
type WeatherHandler struct {
	weather *service.WeatherService
	logger  *slog.Logger
}

// NewWeatherHandler creates a WeatherHandler.
func NewWeatherHandler(weather *service.WeatherService, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{weather: weather, logger: logger}
}

// HandleGet proxies a current-weather lookup to the upstream API.
//
// HTTP: GET /api/weather?location=NAME
//
// An absent location parameter falls back to the default; a present but
// empty one is a 400 — "?location=" is a caller mistake, not a request for
// the default. On success the upstream JSON body is returned verbatim.
func (h *WeatherHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	location := service.DefaultLocation
	if r.URL.Query().Has("location") {
		location = r.URL.Query().Get("location")
	}

	data, err := h.weather.Fetch(r.Context(), location)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, data)
}
