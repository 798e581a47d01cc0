package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrWeatherRateLimited is returned when the outbound budget for the weather
// provider is exhausted.
var ErrWeatherRateLimited = errors.New("weather provider rate limit exceeded")

// WeatherConditions is the current weather at a point, metric units.
// WeatherCode follows the WMO weather interpretation table open-meteo uses.
type WeatherConditions struct {
	TemperatureC     float64 `json:"temperature_c"`
	WindSpeedKmh     float64 `json:"wind_speed_kmh"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	WeatherCode      int     `json:"weather_code"`
	IsDay            bool    `json:"is_day"`
	ObservedAt       string  `json:"observed_at"`
}

// GolfImpact summarizes how conditions change play: a difficulty multiplier
// and how many extra clubs to take into the wind.
type GolfImpact struct {
	Factor         float64 `json:"factor"`
	ClubAdjustment int     `json:"club_adjustment"`
	Summary        string  `json:"summary"`
}

// WeatherConfig collects the knobs for the outbound weather call.
type WeatherConfig struct {
	BaseURL           string
	Timeout           time.Duration
	CacheTTL          time.Duration
	BreakerThreshold  uint32
	RequestsPerMinute int
}

// WeatherService fetches current conditions from open-meteo. Calls go cache
// first, then through a rate limiter and a circuit breaker; a tripped breaker
// fails fast instead of stacking requests on a dead upstream.
type WeatherService struct {
	baseURL  string
	client   *http.Client
	cache    *CacheService
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	logger   *logrus.Logger
	cacheTTL time.Duration
}

func NewWeatherService(cfg WeatherConfig, cache *CacheService, logger *logrus.Logger) *WeatherService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("weather circuit breaker state changed")
		},
	})

	return &WeatherService{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		breaker:  breaker,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute),
		logger:   logger,
		cacheTTL: cfg.CacheTTL,
	}
}

// CurrentConditions returns the weather at (lat, lon), cached per ~100 m cell.
func (ws *WeatherService) CurrentConditions(ctx context.Context, lat, lon float64) (*WeatherConditions, error) {
	key := WeatherCacheKey(lat, lon)

	var cached WeatherConditions
	if err := ws.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		ws.logger.WithError(err).Warn("weather cache read failed")
	}

	if !ws.limiter.Allow() {
		return nil, ErrWeatherRateLimited
	}

	result, err := ws.breaker.Execute(func() (interface{}, error) {
		return ws.fetchCurrent(ctx, lat, lon)
	})
	if err != nil {
		return nil, fmt.Errorf("weather fetch failed: %w", err)
	}
	conditions := result.(*WeatherConditions)

	if err := ws.cache.Set(ctx, key, conditions, ws.cacheTTL); err != nil {
		ws.logger.WithError(err).Warn("weather cache write failed")
	}

	return conditions, nil
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature   float64 `json:"temperature"`
		WindSpeed     float64 `json:"windspeed"`
		WindDirection float64 `json:"winddirection"`
		WeatherCode   int     `json:"weathercode"`
		IsDay         int     `json:"is_day"`
		Time          string  `json:"time"`
	} `json:"current_weather"`
}

func (ws *WeatherService) fetchCurrent(ctx context.Context, lat, lon float64) (*WeatherConditions, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current_weather=true", ws.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := ws.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	cw := payload.CurrentWeather
	return &WeatherConditions{
		TemperatureC:     cw.Temperature,
		WindSpeedKmh:     cw.WindSpeed,
		WindDirectionDeg: cw.WindDirection,
		WeatherCode:      cw.WeatherCode,
		IsDay:            cw.IsDay == 1,
		ObservedAt:       cw.Time,
	}, nil
}

// Wind bands in km/h, the comfort band in °C, and the caddie rule of thumb
// of one extra club per 16 km/h of headwind.
const (
	windLightKmh     = 16.0
	windModerateKmh  = 24.0
	windStrongKmh    = 32.0
	windSevereKmh    = 40.0
	tempColdC        = 7.0
	tempHotC         = 35.0
	windPerExtraClub = 16.0
	maxClubAdjust    = 3
)

// GolfImpact grades how much the conditions inflate effective difficulty.
// Wind dominates; precipitation and temperature extremes stack on top.
func (ws *WeatherService) GolfImpact(c WeatherConditions) GolfImpact {
	factor := 1.0

	switch {
	case c.WindSpeedKmh > windSevereKmh:
		factor *= 1.08
	case c.WindSpeedKmh > windStrongKmh:
		factor *= 1.06
	case c.WindSpeedKmh > windModerateKmh:
		factor *= 1.04
	case c.WindSpeedKmh > windLightKmh:
		factor *= 1.02
	}

	switch {
	case isHeavyPrecipitation(c.WeatherCode):
		factor *= 1.05
	case isLightPrecipitation(c.WeatherCode):
		factor *= 1.02
	}

	if c.TemperatureC < tempColdC || c.TemperatureC > tempHotC {
		factor *= 1.03
	}

	clubs := int(c.WindSpeedKmh / windPerExtraClub)
	if clubs > maxClubAdjust {
		clubs = maxClubAdjust
	}

	return GolfImpact{
		Factor:         round2(factor),
		ClubAdjustment: clubs,
		Summary:        impactSummary(c, clubs),
	}
}

// WMO codes 51-61 cover drizzle and slight rain; 63 and above are moderate
// to heavy rain, snow, showers and thunderstorms.
func isLightPrecipitation(code int) bool {
	return code >= 51 && code <= 61
}

func isHeavyPrecipitation(code int) bool {
	return code >= 63
}

func impactSummary(c WeatherConditions, clubs int) string {
	switch {
	case clubs > 0 && isHeavyPrecipitation(c.WeatherCode):
		return fmt.Sprintf("Viento de %.0f km/h y lluvia: toma %d palo(s) más contra el viento y espera poca rodadura.", c.WindSpeedKmh, clubs)
	case clubs > 0:
		return fmt.Sprintf("Viento de %.0f km/h: toma %d palo(s) más contra el viento.", c.WindSpeedKmh, clubs)
	case isHeavyPrecipitation(c.WeatherCode):
		return "Lluvia: la bola volará menos y apenas rodará."
	case isLightPrecipitation(c.WeatherCode):
		return "Llovizna: condiciones jugables, green algo lento."
	default:
		return "Condiciones favorables para jugar."
	}
}
