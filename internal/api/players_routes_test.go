package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/utils"
)

func newPlayersRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newRouteTestDB(t)
	stats := services.NewPlayerStatsService(db, services.NewCacheService(nil), testLogger(), time.Minute)
	return newTestRouter(t, routerDeps{db: db, stats: stats})
}

func TestPlayersRoutesRequireAuth(t *testing.T) {
	engine := newPlayersRouter(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/players/user-1/club-statistics", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, utils.ErrCodeUnauthorized, errorCode(t, rec))

	// Wrong signing key.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/players/user-1/club-statistics", nil,
		signToken(t, "user-1", "some-other-secret"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bearer token that is not a JWT at all.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/players/user-1/club-statistics", nil, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlayersProfileAndShotsFlow(t *testing.T) {
	engine := newPlayersRouter(t)
	token := signToken(t, "user-1", testSecret)

	// Before any profile exists the player gets the generic table.
	rec := doJSON(t, engine, http.MethodGet, "/api/v1/players/user-1/club-statistics", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, rec)
	assert.Equal(t, "standard_distances", data["source"])
	assert.Len(t, data["clubs"].([]any), 16)

	// Creating the profile seeds the gender and skill defaults.
	rec = doJSON(t, engine, http.MethodPut, "/api/v1/players/user-1/profile",
		map[string]any{
			"gender":         "male",
			"skill_level":    "advanced",
			"handicap":       12.5,
			"years_playing":  8,
			"preferred_hand": "right",
		}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := dataMap(t, rec)
	assert.Equal(t, "user-1", profile["user_id"])
	assert.Equal(t, "male", profile["gender"])
	assert.Equal(t, "advanced", profile["skill_level"])
	assert.InDelta(t, 12.5, profile["handicap"], 0.001)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/players/user-1/club-statistics", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	data = dataMap(t, rec)
	assert.Equal(t, "player_profile", data["source"])
	clubs := data["clubs"].([]any)
	require.Len(t, clubs, 15)
	longest := clubs[0].(map[string]any)
	assert.Equal(t, "Driver", longest["club_name"])
	assert.InDelta(t, 230, longest["average_distance_meters"], 0.001)

	// A recorded carry replaces the seeded aggregates with the rolling window.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/players/user-1/shots",
		map[string]any{"club": "Hierro 7", "distance_meters": 150.0}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	row := dataMap(t, rec)
	assert.EqualValues(t, 1, row["shots_recorded"])
	assert.InDelta(t, 150, row["average_distance_meters"], 0.001)
	assert.InDelta(t, 150, row["min_distance_meters"], 0.001)
	assert.Equal(t, "Hierro 7", child(t, row, "club")["name"])
}

func TestRecordShotRouteErrors(t *testing.T) {
	engine := newPlayersRouter(t)
	token := signToken(t, "user-1", testSecret)

	rec := doJSON(t, engine, http.MethodPut, "/api/v1/players/user-1/profile",
		map[string]any{"gender": "female", "skill_level": "intermediate"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// A club outside the catalog.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/players/user-1/shots",
		map[string]any{"club": "Putter", "distance_meters": 20.0}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown club", decodeEnvelope(t, rec).Error.Message)

	// Carries must be positive.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/players/user-1/shots",
		map[string]any{"club": "Hierro 7", "distance_meters": -1.0}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/players/user-1/shots",
		map[string]any{"club": "Hierro 7"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Recording against an account with no profile.
	ghost := signToken(t, "ghost", testSecret)
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/players/ghost/shots",
		map[string]any{"club": "Hierro 7", "distance_meters": 150.0}, ghost)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Player profile not found", decodeEnvelope(t, rec).Error.Message)
}

// An authenticated caller gets their recorded table fed into the planner.
// user-2 tops out at 100 m, so the flag and the 211 m layup drop out of
// range and the short surveyed path is the only candidate left.
func TestTrajectoryOptionsRouteUsesPlayerReach(t *testing.T) {
	db := newRouteTestDB(t)
	stats := services.NewPlayerStatsService(db, services.NewCacheService(nil), testLogger(), time.Minute)
	engine := newTestRouter(t, routerDeps{db: db, stats: stats})
	token := signToken(t, "user-2", testSecret)

	rec := doJSON(t, engine, http.MethodPut, "/api/v1/players/user-2/profile",
		map[string]any{"gender": "male", "skill_level": "advanced"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// Record one 100 m carry per club so every average collapses to 100 m.
	for _, club := range []string{"Driver", "Madera 3", "Madera 5", "Híbrido 3", "Híbrido 4",
		"Hierro 4", "Hierro 5", "Hierro 6", "Hierro 7", "Hierro 8", "Hierro 9",
		"Pitching Wedge", "Gap Wedge", "Sand Wedge", "Lob Wedge"} {
		rec = doJSON(t, engine, http.MethodPost, "/api/v1/players/user-2/shots",
			map[string]any{"club": club, "distance_meters": 100.0}, token)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/golf/trajectory-options",
		map[string]any{"latitude": 0.0, "longitude": 0.0001, "hole_id": 1}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	optimal := child(t, data, "trayectoria_optima")
	assert.Equal(t, "waypoint", optimal["target"])
	assert.Equal(t, "Salida por el centro", optimal["waypoint_description"])
	assert.InDelta(t, 77.84, optimal["distance_meters"], 0.001)

	club := child(t, optimal, "club_recommendation")
	assert.Equal(t, "player_profile", club["source"])
	assert.Equal(t, "3/4", club["swing_type"])

	assert.NotContains(t, data, "trayectoria_riesgo")
	assert.NotContains(t, data, "trayectoria_conservadora")
}
