package geodata

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/kdigolf/caddie/internal/golf"
)

const earthRadiusMeters = 6371000.0

// MemoryProvider is an in-process Provider backed by planar geometry.
// Polygons and segments are projected to EPSG:3857 so intersection and
// containment run on plane coordinates; geodesic distances use the haversine
// formula directly. Populate it fully before serving queries; it is not safe
// for concurrent mutation.
type MemoryProvider struct {
	holes  map[int64]*memoryHole
	order  []int64
	to3857 func(a, b, c float64) (float64, float64, float64)
}

type memoryHole struct {
	info       golf.HoleInfo
	flag       *golf.Position
	tees       []golf.Position
	fairway    geom.Geometry
	hasFairway bool
	green      geom.Geometry
	hasGreen   bool
	obstacles  []memoryObstacle
	paths      []golf.OptimalPath
	points     []golf.StrategicPoint
}

type memoryObstacle struct {
	obstacle golf.Obstacle
	shape    geom.Geometry
}

// NewMemoryProvider returns an empty provider.
func NewMemoryProvider() *MemoryProvider {
	epsg := wgs84.EPSG()
	return &MemoryProvider{
		holes:  make(map[int64]*memoryHole),
		to3857: epsg.Transform(4326, 3857),
	}
}

// AddHole registers a hole. Fairway and green are polygon rings in (lat, lon)
// order; either may be nil when unsurveyed.
func (m *MemoryProvider) AddHole(info golf.HoleInfo, fairway, green []golf.Position) error {
	if _, exists := m.holes[info.ID]; exists {
		return fmt.Errorf("hole %d already registered", info.ID)
	}
	h := &memoryHole{info: info}
	if len(fairway) > 0 {
		g, err := m.polygon(fairway)
		if err != nil {
			return fmt.Errorf("fairway polygon for hole %d: %w", info.ID, err)
		}
		h.fairway, h.hasFairway = g, true
	}
	if len(green) > 0 {
		g, err := m.polygon(green)
		if err != nil {
			return fmt.Errorf("green polygon for hole %d: %w", info.ID, err)
		}
		h.green, h.hasGreen = g, true
	}
	m.holes[info.ID] = h
	m.order = append(m.order, info.ID)
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	return nil
}

// SetFlag records the hole's flag position.
func (m *MemoryProvider) SetFlag(holeID int64, pos golf.Position) error {
	h, ok := m.holes[holeID]
	if !ok {
		return ErrHoleNotFound
	}
	p := pos
	h.flag = &p
	return nil
}

// AddTee records one tee-box point for the hole.
func (m *MemoryProvider) AddTee(holeID int64, pos golf.Position) error {
	h, ok := m.holes[holeID]
	if !ok {
		return ErrHoleNotFound
	}
	h.tees = append(h.tees, pos)
	return nil
}

// AddObstacle registers a hazard with its polygon ring in (lat, lon) order.
func (m *MemoryProvider) AddObstacle(holeID int64, obs golf.Obstacle, ring []golf.Position) error {
	h, ok := m.holes[holeID]
	if !ok {
		return ErrHoleNotFound
	}
	g, err := m.polygon(ring)
	if err != nil {
		return fmt.Errorf("obstacle %d shape: %w", obs.ID, err)
	}
	h.obstacles = append(h.obstacles, memoryObstacle{obstacle: obs, shape: g})
	sort.Slice(h.obstacles, func(i, j int) bool {
		return h.obstacles[i].obstacle.ID < h.obstacles[j].obstacle.ID
	})
	return nil
}

// AddOptimalPath registers a pre-surveyed line on the hole.
func (m *MemoryProvider) AddOptimalPath(holeID int64, path golf.OptimalPath) error {
	h, ok := m.holes[holeID]
	if !ok {
		return ErrHoleNotFound
	}
	h.paths = append(h.paths, path)
	sort.Slice(h.paths, func(i, j int) bool { return h.paths[i].ID < h.paths[j].ID })
	return nil
}

// AddStrategicPoint registers a landing-zone candidate. Points are kept in
// the order the engine expects: ascending distance to flag, unsurveyed last,
// then descending priority.
func (m *MemoryProvider) AddStrategicPoint(holeID int64, sp golf.StrategicPoint) error {
	h, ok := m.holes[holeID]
	if !ok {
		return ErrHoleNotFound
	}
	h.points = append(h.points, sp)
	sort.SliceStable(h.points, func(i, j int) bool {
		a, b := h.points[i], h.points[j]
		switch {
		case a.DistanceToFlag == nil && b.DistanceToFlag == nil:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return a.ID < b.ID
		case a.DistanceToFlag == nil:
			return false
		case b.DistanceToFlag == nil:
			return true
		case *a.DistanceToFlag != *b.DistanceToFlag:
			return *a.DistanceToFlag < *b.DistanceToFlag
		case a.Priority != b.Priority:
			return a.Priority > b.Priority
		default:
			return a.ID < b.ID
		}
	})
	return nil
}

func (m *MemoryProvider) DistanceToFlag(ctx context.Context, holeID int64, pos golf.Position) (float64, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return 0, ErrHoleNotFound
	}
	if h.flag == nil {
		return 0, ErrNoFlag
	}
	return haversineMeters(pos, *h.flag), nil
}

func (m *MemoryProvider) FlagPosition(ctx context.Context, holeID int64) (golf.Position, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return golf.Position{}, ErrHoleNotFound
	}
	if h.flag == nil {
		return golf.Position{}, ErrNoFlag
	}
	return *h.flag, nil
}

func (m *MemoryProvider) DistanceBetween(ctx context.Context, a, b golf.Position) (float64, error) {
	return haversineMeters(a, b), nil
}

func (m *MemoryProvider) ObstaclesOnSegment(ctx context.Context, holeID int64, a, b golf.Position) ([]golf.Obstacle, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return nil, ErrHoleNotFound
	}
	segment, err := m.lineString(a, b)
	if err != nil {
		return nil, err
	}
	var out []golf.Obstacle
	for _, o := range h.obstacles {
		if geom.Intersects(o.shape, segment) {
			out = append(out, o.obstacle)
		}
	}
	return out, nil
}

func (m *MemoryProvider) TerrainAt(ctx context.Context, holeID int64, pos golf.Position) (golf.TerrainKind, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return golf.TerrainFairway, ErrHoleNotFound
	}
	pt := m.point(pos)
	for _, o := range h.obstacles {
		if geom.Intersects(o.shape, pt) {
			return golf.TerrainKind(o.obstacle.Kind), nil
		}
	}
	for _, tee := range h.tees {
		if haversineMeters(pos, tee) <= teeProximityMeters {
			return golf.TerrainTee, nil
		}
	}
	return golf.TerrainFairway, nil
}

func (m *MemoryProvider) IsOnGreen(ctx context.Context, holeID int64, pos golf.Position) (bool, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return false, ErrHoleNotFound
	}
	if !h.hasGreen {
		return false, nil
	}
	return geom.Intersects(h.green, m.point(pos)), nil
}

func (m *MemoryProvider) AllOptimalPaths(ctx context.Context, holeID int64) ([]golf.OptimalPath, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return nil, ErrHoleNotFound
	}
	out := make([]golf.OptimalPath, len(h.paths))
	copy(out, h.paths)
	return out, nil
}

func (m *MemoryProvider) StrategicPoints(ctx context.Context, holeID int64) ([]golf.StrategicPoint, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return nil, ErrHoleNotFound
	}
	out := make([]golf.StrategicPoint, len(h.points))
	copy(out, h.points)
	return out, nil
}

func (m *MemoryProvider) IdentifyHole(ctx context.Context, pos golf.Position) (*golf.HoleInfo, error) {
	pt := m.point(pos)
	for _, id := range m.order {
		h := m.holes[id]
		if h.hasFairway && geom.Intersects(h.fairway, pt) {
			info := h.info
			return &info, nil
		}
		if h.hasGreen && geom.Intersects(h.green, pt) {
			info := h.info
			return &info, nil
		}
	}
	return nil, nil
}

func (m *MemoryProvider) HoleByID(ctx context.Context, holeID int64) (*golf.HoleInfo, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return nil, ErrHoleNotFound
	}
	info := h.info
	return &info, nil
}

func (m *MemoryProvider) NearestOptimalPath(ctx context.Context, holeID int64, pos golf.Position) (*golf.OptimalPath, float64, error) {
	h, ok := m.holes[holeID]
	if !ok {
		return nil, 0, ErrHoleNotFound
	}
	if len(h.paths) == 0 {
		return nil, 0, nil
	}
	pt := m.point(pos)
	// Planar 3857 distances overstate meters by the Mercator scale factor,
	// uniform at course scale, so correcting by cos(lat) recovers meters.
	scale := math.Cos(pos.Lat * math.Pi / 180)

	var best *golf.OptimalPath
	bestDist := math.Inf(1)
	for i := range h.paths {
		line, err := m.lineString(h.paths[i].Start, h.paths[i].End)
		if err != nil {
			return nil, 0, err
		}
		planar, ok := geom.Distance(pt, line)
		if !ok {
			continue
		}
		if d := planar * scale; d < bestDist {
			bestDist = d
			best = &h.paths[i]
		}
	}
	if best == nil {
		return nil, 0, nil
	}
	path := *best
	return &path, bestDist, nil
}

func (m *MemoryProvider) point(p golf.Position) geom.Geometry {
	x, y, _ := m.to3857(p.Lon, p.Lat, 0)
	pt := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}})
	return pt.AsGeometry()
}

func (m *MemoryProvider) lineString(a, b golf.Position) (geom.Geometry, error) {
	ax, ay, _ := m.to3857(a.Lon, a.Lat, 0)
	bx, by, _ := m.to3857(b.Lon, b.Lat, 0)
	wkt := fmt.Sprintf("LINESTRING(%s %s, %s %s)",
		formatCoord(ax), formatCoord(ay), formatCoord(bx), formatCoord(by))
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("segment geometry: %w", err)
	}
	return g, nil
}

func (m *MemoryProvider) polygon(ring []golf.Position) (geom.Geometry, error) {
	if len(ring) < 3 {
		return geom.Geometry{}, fmt.Errorf("polygon ring needs at least 3 positions, got %d", len(ring))
	}
	coords := make([]string, 0, len(ring)+1)
	for _, p := range ring {
		x, y, _ := m.to3857(p.Lon, p.Lat, 0)
		coords = append(coords, formatCoord(x)+" "+formatCoord(y))
	}
	if ring[0] != ring[len(ring)-1] {
		coords = append(coords, coords[0])
	}
	wkt := "POLYGON((" + strings.Join(coords, ", ") + "))"
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("polygon geometry: %w", err)
	}
	return g, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// haversineMeters is the great-circle distance between two coordinates.
func haversineMeters(a, b golf.Position) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
