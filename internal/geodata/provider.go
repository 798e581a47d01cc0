package geodata

import (
	"context"
	"errors"

	"github.com/kdigolf/caddie/internal/golf"
)

// ErrNoFlag is returned when a hole has no surveyed flag position. The
// trajectory pipeline treats it as a hard precondition failure.
var ErrNoFlag = errors.New("hole has no flag defined")

// ErrHoleNotFound is returned when a hole id does not exist.
var ErrHoleNotFound = errors.New("hole not found")

// Provider answers the geospatial questions the trajectory engine asks.
// Distances are meters; containment and intersection semantics belong to the
// implementation. Providers are read-only: no call mutates stored geodata.
type Provider interface {
	// DistanceToFlag returns the geodesic distance from pos to the hole's
	// flag, or ErrNoFlag when the hole has no flag point.
	DistanceToFlag(ctx context.Context, holeID int64, pos golf.Position) (float64, error)

	// FlagPosition returns the hole's flag coordinate, or ErrNoFlag when the
	// hole has no flag point.
	FlagPosition(ctx context.Context, holeID int64) (golf.Position, error)

	// DistanceBetween returns the geodesic distance between two positions.
	DistanceBetween(ctx context.Context, a, b golf.Position) (float64, error)

	// ObstaclesOnSegment returns the obstacles whose shapes intersect the
	// straight segment from a to b, ordered by id.
	ObstaclesOnSegment(ctx context.Context, holeID int64, a, b golf.Position) ([]golf.Obstacle, error)

	// TerrainAt classifies the lie under pos. TerrainFairway means normal
	// fairway/green terrain.
	TerrainAt(ctx context.Context, holeID int64, pos golf.Position) (golf.TerrainKind, error)

	// IsOnGreen reports whether pos lies inside the hole's green polygon.
	IsOnGreen(ctx context.Context, holeID int64, pos golf.Position) (bool, error)

	// AllOptimalPaths returns every pre-surveyed ideal line on the hole.
	AllOptimalPaths(ctx context.Context, holeID int64) ([]golf.OptimalPath, error)

	// StrategicPoints returns the hole's landing-zone candidates ordered by
	// ascending distance to the flag (unsurveyed distances last).
	StrategicPoints(ctx context.Context, holeID int64) ([]golf.StrategicPoint, error)

	// IdentifyHole finds the hole whose fairway or green contains pos.
	// Returns (nil, nil) when the position is on no surveyed hole.
	IdentifyHole(ctx context.Context, pos golf.Position) (*golf.HoleInfo, error)

	// HoleByID returns the hole's summary, or ErrHoleNotFound.
	HoleByID(ctx context.Context, holeID int64) (*golf.HoleInfo, error)

	// NearestOptimalPath returns the pre-surveyed line closest to pos and
	// the distance in meters to it. Returns (nil, 0, nil) when the hole has
	// no surveyed paths.
	NearestOptimalPath(ctx context.Context, holeID int64, pos golf.Position) (*golf.OptimalPath, float64, error)
}

// teeProximityMeters is how close to a surveyed tee point a ball must be for
// the lie to count as the tee box.
const teeProximityMeters = 15.0
