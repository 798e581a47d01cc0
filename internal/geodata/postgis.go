package geodata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/pkg/database"
)

// PostGISProvider answers geodata queries with PostGIS. Geography casts keep
// distances in meters; containment and intersection run on geometry.
// Coordinates are stored (lon, lat) per PostGIS convention.
type PostGISProvider struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewPostGISProvider creates a provider over the given connection.
func NewPostGISProvider(db *database.DB, logger *logrus.Logger) *PostGISProvider {
	return &PostGISProvider{
		db:     db,
		logger: logger,
	}
}

func (p *PostGISProvider) DistanceToFlag(ctx context.Context, holeID int64, pos golf.Position) (float64, error) {
	var res struct {
		DistanceMeters sql.NullFloat64
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT ST_Distance(
		    ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		    hp.position
		) AS distance_meters
		FROM hole_point hp
		WHERE hp.hole_id = ?
		  AND hp.type = 'flag'
		LIMIT 1`, pos.Lon, pos.Lat, holeID).Scan(&res)
	if tx.Error != nil {
		return 0, fmt.Errorf("distance to flag for hole %d: %w", holeID, tx.Error)
	}
	if tx.RowsAffected == 0 || !res.DistanceMeters.Valid {
		return 0, ErrNoFlag
	}
	return res.DistanceMeters.Float64, nil
}

func (p *PostGISProvider) FlagPosition(ctx context.Context, holeID int64) (golf.Position, error) {
	var res struct {
		Lat float64
		Lon float64
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT ST_Y(hp.position::geometry) AS lat,
		       ST_X(hp.position::geometry) AS lon
		FROM hole_point hp
		WHERE hp.hole_id = ?
		  AND hp.type = 'flag'
		LIMIT 1`, holeID).Scan(&res)
	if tx.Error != nil {
		return golf.Position{}, fmt.Errorf("flag position for hole %d: %w", holeID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return golf.Position{}, ErrNoFlag
	}
	return golf.Position{Lat: res.Lat, Lon: res.Lon}, nil
}

func (p *PostGISProvider) DistanceBetween(ctx context.Context, a, b golf.Position) (float64, error) {
	var res struct {
		DistanceMeters float64
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT ST_Distance(
		    ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		    ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography
		) AS distance_meters`, a.Lon, a.Lat, b.Lon, b.Lat).Scan(&res)
	if tx.Error != nil {
		return 0, fmt.Errorf("distance between positions: %w", tx.Error)
	}
	return res.DistanceMeters, nil
}

func (p *PostGISProvider) ObstaclesOnSegment(ctx context.Context, holeID int64, a, b golf.Position) ([]golf.Obstacle, error) {
	var rows []struct {
		ID   int64
		Type string
		Name sql.NullString
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT o.id, o.type, o.name
		FROM obstacle o
		WHERE o.hole_id = ?
		  AND o.shape IS NOT NULL
		  AND ST_Intersects(
		      o.shape::geometry,
		      ST_MakeLine(
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geometry,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geometry
		      )
		  )
		ORDER BY o.id`, holeID, a.Lon, a.Lat, b.Lon, b.Lat).Scan(&rows)
	if tx.Error != nil {
		return nil, fmt.Errorf("obstacles on segment for hole %d: %w", holeID, tx.Error)
	}

	obstacles := make([]golf.Obstacle, 0, len(rows))
	for _, r := range rows {
		obstacles = append(obstacles, golf.Obstacle{
			ID:   r.ID,
			Kind: golf.ObstacleKind(r.Type),
			Name: r.Name.String,
		})
	}
	return obstacles, nil
}

func (p *PostGISProvider) TerrainAt(ctx context.Context, holeID int64, pos golf.Position) (golf.TerrainKind, error) {
	var res struct {
		Type string
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT o.type
		FROM obstacle o
		WHERE o.hole_id = ?
		  AND o.shape IS NOT NULL
		  AND ST_Contains(
		      o.shape::geometry,
		      ST_SetSRID(ST_MakePoint(?, ?), 4326)::geometry
		  )
		ORDER BY o.id
		LIMIT 1`, holeID, pos.Lon, pos.Lat).Scan(&res)
	if tx.Error != nil {
		return golf.TerrainFairway, fmt.Errorf("terrain at position for hole %d: %w", holeID, tx.Error)
	}
	if tx.RowsAffected > 0 {
		return golf.TerrainKind(res.Type), nil
	}

	// Not inside any hazard; a ball close to a surveyed tee point is on the
	// tee box, anything else counts as fairway/green.
	var tee struct {
		OnTee bool
	}
	tx = p.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		    SELECT 1
		    FROM hole_point hp
		    WHERE hp.hole_id = ?
		      AND hp.type IN ('tee', 'tee_white', 'tee_yellow')
		      AND ST_DWithin(
		          hp.position,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		          ?
		      )
		) AS on_tee`, holeID, pos.Lon, pos.Lat, teeProximityMeters).Scan(&tee)
	if tx.Error != nil {
		return golf.TerrainFairway, fmt.Errorf("tee proximity for hole %d: %w", holeID, tx.Error)
	}
	if tee.OnTee {
		return golf.TerrainTee, nil
	}
	return golf.TerrainFairway, nil
}

func (p *PostGISProvider) IsOnGreen(ctx context.Context, holeID int64, pos golf.Position) (bool, error) {
	var res struct {
		OnGreen bool
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		    SELECT 1
		    FROM hole h
		    WHERE h.id = ?
		      AND h.green_polygon IS NOT NULL
		      AND ST_Contains(
		          h.green_polygon::geometry,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geometry
		      )
		) AS on_green`, holeID, pos.Lon, pos.Lat).Scan(&res)
	if tx.Error != nil {
		return false, fmt.Errorf("green containment for hole %d: %w", holeID, tx.Error)
	}
	return res.OnGreen, nil
}

func (p *PostGISProvider) AllOptimalPaths(ctx context.Context, holeID int64) ([]golf.OptimalPath, error) {
	var rows []struct {
		ID          int64
		Description sql.NullString
		StartLat    float64
		StartLon    float64
		EndLat      float64
		EndLon      float64
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT os.id,
		       os.description,
		       ST_Y(ST_StartPoint(os.path::geometry)) AS start_lat,
		       ST_X(ST_StartPoint(os.path::geometry)) AS start_lon,
		       ST_Y(ST_EndPoint(os.path::geometry))   AS end_lat,
		       ST_X(ST_EndPoint(os.path::geometry))   AS end_lon
		FROM optimal_shot os
		WHERE os.hole_id = ?
		  AND os.path IS NOT NULL
		ORDER BY os.id`, holeID).Scan(&rows)
	if tx.Error != nil {
		return nil, fmt.Errorf("optimal paths for hole %d: %w", holeID, tx.Error)
	}

	paths := make([]golf.OptimalPath, 0, len(rows))
	for _, r := range rows {
		paths = append(paths, golf.OptimalPath{
			ID:          r.ID,
			Start:       golf.Position{Lat: r.StartLat, Lon: r.StartLon},
			End:         golf.Position{Lat: r.EndLat, Lon: r.EndLon},
			Description: r.Description.String,
		})
	}
	return paths, nil
}

func (p *PostGISProvider) StrategicPoints(ctx context.Context, holeID int64) ([]golf.StrategicPoint, error) {
	var rows []struct {
		ID             int64
		Name           sql.NullString
		Description    sql.NullString
		DistanceToFlag sql.NullInt64
		Priority       int
		Lat            float64
		Lon            float64
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT sp.id,
		       sp.name,
		       sp.description,
		       sp.distance_to_flag,
		       sp.priority,
		       ST_Y(sp.position::geometry) AS lat,
		       ST_X(sp.position::geometry) AS lon
		FROM strategic_point sp
		WHERE sp.hole_id = ?
		ORDER BY sp.distance_to_flag ASC NULLS LAST, sp.priority DESC, sp.id`, holeID).Scan(&rows)
	if tx.Error != nil {
		return nil, fmt.Errorf("strategic points for hole %d: %w", holeID, tx.Error)
	}

	points := make([]golf.StrategicPoint, 0, len(rows))
	for _, r := range rows {
		sp := golf.StrategicPoint{
			ID:          r.ID,
			Position:    golf.Position{Lat: r.Lat, Lon: r.Lon},
			Priority:    r.Priority,
			Name:        r.Name.String,
			Description: r.Description.String,
		}
		if r.DistanceToFlag.Valid {
			d := float64(r.DistanceToFlag.Int64)
			sp.DistanceToFlag = &d
		}
		points = append(points, sp)
	}
	return points, nil
}

func (p *PostGISProvider) IdentifyHole(ctx context.Context, pos golf.Position) (*golf.HoleInfo, error) {
	var res holeInfoRow
	tx := p.db.WithContext(ctx).Raw(`
		SELECT h.id,
		       h.course_id,
		       h.hole_number,
		       h.par,
		       h.length,
		       gc.name AS course_name
		FROM hole h
		INNER JOIN golf_course gc ON h.course_id = gc.id
		WHERE (h.fairway_polygon IS NOT NULL AND ST_Contains(
		          h.fairway_polygon::geometry,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geometry))
		   OR (h.green_polygon IS NOT NULL AND ST_Contains(
		          h.green_polygon::geometry,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geometry))
		LIMIT 1`, pos.Lon, pos.Lat, pos.Lon, pos.Lat).Scan(&res)
	if tx.Error != nil {
		return nil, fmt.Errorf("identify hole: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return res.toHoleInfo(), nil
}

func (p *PostGISProvider) HoleByID(ctx context.Context, holeID int64) (*golf.HoleInfo, error) {
	var res holeInfoRow
	tx := p.db.WithContext(ctx).Raw(`
		SELECT h.id,
		       h.course_id,
		       h.hole_number,
		       h.par,
		       h.length,
		       gc.name AS course_name
		FROM hole h
		INNER JOIN golf_course gc ON h.course_id = gc.id
		WHERE h.id = ?`, holeID).Scan(&res)
	if tx.Error != nil {
		return nil, fmt.Errorf("hole %d: %w", holeID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, ErrHoleNotFound
	}
	return res.toHoleInfo(), nil
}

func (p *PostGISProvider) NearestOptimalPath(ctx context.Context, holeID int64, pos golf.Position) (*golf.OptimalPath, float64, error) {
	var res struct {
		ID             int64
		Description    sql.NullString
		StartLat       float64
		StartLon       float64
		EndLat         float64
		EndLon         float64
		DistanceMeters float64
	}
	tx := p.db.WithContext(ctx).Raw(`
		SELECT os.id,
		       os.description,
		       ST_Y(ST_StartPoint(os.path::geometry)) AS start_lat,
		       ST_X(ST_StartPoint(os.path::geometry)) AS start_lon,
		       ST_Y(ST_EndPoint(os.path::geometry))   AS end_lat,
		       ST_X(ST_EndPoint(os.path::geometry))   AS end_lon,
		       ST_Distance(
		           ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		           os.path
		       ) AS distance_meters
		FROM optimal_shot os
		WHERE os.hole_id = ?
		  AND os.path IS NOT NULL
		ORDER BY distance_meters
		LIMIT 1`, pos.Lon, pos.Lat, holeID).Scan(&res)
	if tx.Error != nil {
		return nil, 0, fmt.Errorf("nearest optimal path for hole %d: %w", holeID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, 0, nil
	}
	path := &golf.OptimalPath{
		ID:          res.ID,
		Start:       golf.Position{Lat: res.StartLat, Lon: res.StartLon},
		End:         golf.Position{Lat: res.EndLat, Lon: res.EndLon},
		Description: res.Description.String,
	}
	return path, res.DistanceMeters, nil
}

type holeInfoRow struct {
	ID         int64
	CourseID   int64
	HoleNumber int
	Par        sql.NullInt64
	Length     sql.NullInt64
	CourseName string
}

func (r holeInfoRow) toHoleInfo() *golf.HoleInfo {
	return &golf.HoleInfo{
		ID:         r.ID,
		CourseID:   r.CourseID,
		Number:     r.HoleNumber,
		Par:        int(r.Par.Int64),
		Length:     int(r.Length.Int64),
		CourseName: r.CourseName,
	}
}
