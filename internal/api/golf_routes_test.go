package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdigolf/caddie/pkg/utils"
)

func TestIdentifyHoleRoute(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/identify-hole",
		map[string]any{"latitude": 0.0001, "longitude": 0.0005}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	hole := child(t, data, "hole")
	assert.EqualValues(t, 1, hole["id"])
	assert.EqualValues(t, 1, hole["hole_number"])
	assert.EqualValues(t, 4, hole["par"])
	assert.Equal(t, "Club de Golf Prueba", hole["course_name"])
}

func TestIdentifyHoleRouteOutsideCourse(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/identify-hole",
		map[string]any{"latitude": 0.01, "longitude": 0.01}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	assert.Contains(t, data, "hole")
	assert.Nil(t, data["hole"])
}

func TestIdentifyHoleRouteValidation(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/identify-hole",
		map[string]any{"latitude": 0.0001}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeValidation, errorCode(t, rec))

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/golf/identify-hole",
		map[string]any{"latitude": 95.0, "longitude": 0.0}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Coordinates out of range", decodeEnvelope(t, rec).Error.Message)
}

func TestTerrainTypeRoute(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	// Inside the lake.
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/terrain-type",
		map[string]any{"latitude": 0.0001, "longitude": 0.0012, "hole_id": 1}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, rec)
	assert.EqualValues(t, 1, data["hole_id"])
	assert.Equal(t, "water", data["terrain_type"])

	// Plain fairway reports null.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/golf/terrain-type",
		map[string]any{"latitude": 0.0, "longitude": 0.0005, "hole_id": 1}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data = dataMap(t, rec)
	assert.Contains(t, data, "terrain_type")
	assert.Nil(t, data["terrain_type"])

	// On the tee box.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/golf/terrain-type",
		map[string]any{"latitude": 0.0, "longitude": 0.0001, "hole_id": 1}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tee", dataMap(t, rec)["terrain_type"])
}

func TestTerrainTypeRouteUnknownHole(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/terrain-type",
		map[string]any{"latitude": 0.0, "longitude": 0.0005, "hole_id": 99}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, utils.ErrCodeNotFound, errorCode(t, rec))
}

func TestDistanceToHoleRoute(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/distance-to-hole",
		map[string]any{"latitude": 0.0, "longitude": 0.0, "hole_id": 1}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	assert.EqualValues(t, 1, data["hole_id"])
	assert.InDelta(t, 311.35, data["distance_meters"], 0.01)
	assert.InDelta(t, 340.49, data["distance_yards"], 0.01)
}

func TestDistanceToHoleRouteErrors(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/distance-to-hole",
		map[string]any{"latitude": 0.0, "longitude": 0.0, "hole_id": 99}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Hole not found", decodeEnvelope(t, rec).Error.Message)

	// Hole 2 exists but has no surveyed flag.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/golf/distance-to-hole",
		map[string]any{"latitude": 0.0, "longitude": 0.0045, "hole_id": 2}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Hole has no flag position surveyed", decodeEnvelope(t, rec).Error.Message)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/golf/distance-to-hole",
		map[string]any{"latitude": 0.0, "longitude": 0.0, "hole_id": 0}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObstaclesBetweenRouteDefaultsToFlag(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/obstacles-between",
		map[string]any{"latitude": 0.0, "longitude": 0.0005, "hole_id": 1}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	assert.EqualValues(t, 1, data["obstacle_count"])
	obstacles, ok := data["obstacles"].([]any)
	require.True(t, ok)
	require.Len(t, obstacles, 1)
	first := obstacles[0].(map[string]any)
	assert.Equal(t, "water", first["type"])
	assert.Equal(t, "Lago", first["name"])
}

func TestObstaclesBetweenRouteExplicitTarget(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	// A layup short of the lake crosses nothing.
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/obstacles-between",
		map[string]any{
			"latitude": 0.0, "longitude": 0.0005, "hole_id": 1,
			"target_latitude": 0.0, "target_longitude": 0.0008,
		}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	assert.EqualValues(t, 0, data["obstacle_count"])
	obstacles, ok := data["obstacles"].([]any)
	require.True(t, ok, "obstacles must be an array even when empty")
	assert.Empty(t, obstacles)
}

func TestObstaclesBetweenRouteHalfTarget(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/obstacles-between",
		map[string]any{
			"latitude": 0.0, "longitude": 0.0005, "hole_id": 1,
			"target_latitude": 0.0,
		}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Incomplete target", decodeEnvelope(t, rec).Error.Message)
}

func TestNearestOptimalShotRoute(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/nearest-optimal-shot",
		map[string]any{"latitude": 0.0001, "longitude": 0.0005, "hole_id": 1}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	path := child(t, data, "path")
	assert.EqualValues(t, 1, path["id"])
	assert.Equal(t, "Salida por el centro", path["description"])
	// The position sits one ten-thousandth of a degree north of the line.
	assert.InDelta(t, 11.13, data["distance_meters"], 0.05)
}

func TestNearestOptimalShotRouteNoPaths(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/nearest-optimal-shot",
		map[string]any{"latitude": 0.0, "longitude": 0.0045, "hole_id": 2}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	assert.Contains(t, data, "path")
	assert.Nil(t, data["path"])
	assert.NotContains(t, data, "distance_meters")
}

func TestAnalysisRoute(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	// Ball in the lake on hole 1.
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/analysis",
		map[string]any{"latitude": 0.0001, "longitude": 0.0012}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	hole := child(t, data, "hole")
	assert.EqualValues(t, 1, hole["id"])
	assert.Equal(t, "water", data["terrain_type"])
	assert.InDelta(t, 178.26, data["distance_meters"], 0.05)
	assert.EqualValues(t, 1, data["obstacle_count"])
}

func TestAnalysisRouteOutsideCourse(t *testing.T) {
	engine := newTestRouter(t, routerDeps{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/golf/analysis",
		map[string]any{"latitude": 1.0, "longitude": 1.0}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, rec)
	assert.Nil(t, data["hole"])
	assert.Equal(t, "La posición no está sobre ningún hoyo registrado.", data["message"])
}
