package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/utils"
)

// WeatherHandler exposes current playing conditions for a course position.
type WeatherHandler struct {
	weather *services.WeatherService
	logger  *logrus.Logger
}

func NewWeatherHandler(weather *services.WeatherService, logger *logrus.Logger) *WeatherHandler {
	return &WeatherHandler{
		weather: weather,
		logger:  logger,
	}
}

// GetWeather returns the conditions at ?latitude=&longitude= plus their golf
// impact summary. A tripped upstream breaker maps to 503, the outbound rate
// limit to 429.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid latitude", "latitude query parameter must be a number")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid longitude", "longitude query parameter must be a number")
		return
	}
	if !(golf.Position{Lat: lat, Lon: lon}).Valid() {
		utils.SendValidationError(c, "Coordinates out of range",
			"latitude must be in [-90, 90] and longitude in [-180, 180]")
		return
	}

	conditions, err := h.weather.CurrentConditions(c.Request.Context(), lat, lon)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeatherRateLimited):
			utils.SendTooManyRequests(c, "Weather lookups are rate limited, try again shortly")
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			utils.SendUnavailable(c, "Weather provider is temporarily unavailable")
		default:
			h.logger.WithError(err).Error("Weather lookup failed")
			utils.SendInternalError(c, "Failed to fetch weather conditions")
		}
		return
	}

	utils.SendSuccess(c, gin.H{
		"conditions":  conditions,
		"golf_impact": h.weather.GolfImpact(*conditions),
	})
}
