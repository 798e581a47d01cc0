package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/utils"
)

const currentWeatherFixture = `{"current_weather":{"temperature":21.5,"windspeed":18.4,` +
	`"winddirection":230,"weathercode":2,"is_day":1,"time":"2025-06-21T10:00"}}`

func newWeatherUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newWeatherRouter(t *testing.T, cfg services.WeatherConfig) *gin.Engine {
	t.Helper()
	weather := services.NewWeatherService(cfg, services.NewCacheService(nil), testLogger())
	return newTestRouter(t, routerDeps{weather: weather})
}

func TestWeatherRoute(t *testing.T) {
	srv := newWeatherUpstream(t, http.StatusOK, currentWeatherFixture)
	engine := newWeatherRouter(t, services.WeatherConfig{BaseURL: srv.URL})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/weather?latitude=43.35&longitude=-8.41", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	conditions := child(t, data, "conditions")
	assert.InDelta(t, 21.5, conditions["temperature_c"], 0.001)
	assert.InDelta(t, 18.4, conditions["wind_speed_kmh"], 0.001)
	assert.Equal(t, true, conditions["is_day"])

	impact := child(t, data, "golf_impact")
	assert.InDelta(t, 1.02, impact["factor"], 0.001)
	assert.EqualValues(t, 1, impact["club_adjustment"])
	assert.Equal(t, "Viento de 18 km/h: toma 1 palo(s) más contra el viento.", impact["summary"])
}

func TestWeatherRouteValidation(t *testing.T) {
	engine := newWeatherRouter(t, services.WeatherConfig{BaseURL: "http://unreachable.invalid"})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/weather?longitude=-8.41", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid latitude", decodeEnvelope(t, rec).Error.Message)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/weather?latitude=43.35&longitude=east", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid longitude", decodeEnvelope(t, rec).Error.Message)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/weather?latitude=95&longitude=0", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeValidation, errorCode(t, rec))
}

func TestWeatherRouteUpstreamFailure(t *testing.T) {
	srv := newWeatherUpstream(t, http.StatusInternalServerError, "")
	engine := newWeatherRouter(t, services.WeatherConfig{BaseURL: srv.URL})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/weather?latitude=43.35&longitude=-8.41", nil, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, utils.ErrCodeInternal, errorCode(t, rec))
}

func TestWeatherRouteRateLimited(t *testing.T) {
	srv := newWeatherUpstream(t, http.StatusOK, currentWeatherFixture)
	engine := newWeatherRouter(t, services.WeatherConfig{BaseURL: srv.URL, RequestsPerMinute: 1})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/weather?latitude=43.35&longitude=-8.41", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Without Redis nothing is cached, so the second hit reaches the limiter.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/weather?latitude=43.35&longitude=-8.41", nil, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, utils.ErrCodeRateLimit, errorCode(t, rec))
}
