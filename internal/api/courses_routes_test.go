package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdigolf/caddie/internal/models"
	"github.com/kdigolf/caddie/pkg/database"
)

// dataSlice asserts a success envelope whose data is an array.
func dataSlice(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, "body: %s", rec.Body.String())
	var s []any
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func seedCourses(t *testing.T, db *database.DB) {
	t.Helper()
	for _, course := range []models.GolfCourse{
		{Name: "Pinar del Este"},
		{Name: "Aldeamar"},
	} {
		require.NoError(t, db.Create(&course).Error)
	}
	// Out of order on purpose; the handler sorts by hole number.
	for _, hole := range []models.Hole{
		{CourseID: 1, HoleNumber: 2, Par: 3, Length: 150},
		{CourseID: 1, HoleNumber: 1, Par: 4, Length: 310},
	} {
		require.NoError(t, db.Create(&hole).Error)
	}
}

func TestListCoursesRoute(t *testing.T) {
	db := newRouteTestDB(t)
	seedCourses(t, db)
	engine := newTestRouter(t, routerDeps{db: db})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/courses", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	courses := dataSlice(t, rec)
	require.Len(t, courses, 2)
	assert.Equal(t, "Aldeamar", courses[0].(map[string]any)["name"])
	assert.Equal(t, "Pinar del Este", courses[1].(map[string]any)["name"])

	meta := decodeEnvelope(t, rec).Meta
	require.NotNil(t, meta)
	assert.EqualValues(t, 2, meta.Total)
}

func TestGetCourseRoute(t *testing.T) {
	db := newRouteTestDB(t)
	seedCourses(t, db)
	engine := newTestRouter(t, routerDeps{db: db})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/courses/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	course := dataMap(t, rec)
	assert.Equal(t, "Pinar del Este", course["name"])

	holes := course["holes"].([]any)
	require.Len(t, holes, 2)
	assert.EqualValues(t, 1, holes[0].(map[string]any)["hole_number"])
	assert.EqualValues(t, 2, holes[1].(map[string]any)["hole_number"])
}

func TestGetCourseRouteErrors(t *testing.T) {
	db := newRouteTestDB(t)
	seedCourses(t, db)
	engine := newTestRouter(t, routerDeps{db: db})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/courses/99", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course not found", decodeEnvelope(t, rec).Error.Message)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/courses/abc", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid course ID", decodeEnvelope(t, rec).Error.Message)
}
