package trajectory

import (
	"math"

	"github.com/kdigolf/caddie/internal/golf"
)

const (
	// MaxViableRisk is the validity gate: candidates scoring above it are
	// discarded before ranking.
	MaxViableRisk = 75.0

	// LowRiskThreshold separates conservative from aggressive candidates
	// when assigning roles.
	LowRiskThreshold = 30.0

	maxObstaclePenalty  = 15.0
	maxPrecisionPenalty = 15.0
	maxCoveragePenalty  = 10.0

	precisionErrorFloor  = 0.10
	precisionErrorSlope  = 150.0
	coverageNearDistance = 100.0
	coverageDensityFloor = 0.05
	coverageDensitySlope = 200.0
)

// CurvePoint is one breakpoint of a piecewise-linear distance risk curve.
type CurvePoint struct {
	Distance float64
	Risk     float64
}

// RiskTable carries every constant the risk model scores with. It is plain
// data so tests and callers can swap tables without touching the model.
type RiskTable struct {
	// BaseByObstacle maps hazard types to their base risk contribution.
	BaseByObstacle map[golf.ObstacleKind]float64

	// TerrainClub maps the lie under the ball and the club category to a
	// difficulty score. Terrain kinds without a row fall back to the
	// fairway row.
	TerrainClub map[golf.TerrainKind]map[golf.ClubCategory]float64

	// WaypointCurve and FlagCurve grade distance risk for lay-up targets
	// and green/flag targets respectively.
	WaypointCurve []CurvePoint
	FlagCurve     []CurvePoint
}

// DefaultRiskTable returns the production scoring constants.
func DefaultRiskTable() RiskTable {
	return RiskTable{
		BaseByObstacle: map[golf.ObstacleKind]float64{
			golf.ObstacleWater:       50,
			golf.ObstacleOutOfBounds: 45,
			golf.ObstacleTrees:       25,
			golf.ObstacleRoughHeavy:  20,
			golf.ObstacleBunker:      15,
		},
		TerrainClub: map[golf.TerrainKind]map[golf.ClubCategory]float64{
			golf.TerrainTee: {
				golf.CategoryWedge:  0,
				golf.CategoryIron:   0,
				golf.CategoryHybrid: 1,
				golf.CategoryWood:   1,
				golf.CategoryDriver: 2,
			},
			golf.TerrainFairway: {
				golf.CategoryWedge:  2,
				golf.CategoryIron:   5,
				golf.CategoryHybrid: 12,
				golf.CategoryWood:   25,
				golf.CategoryDriver: 70,
			},
			golf.TerrainBunker: {
				golf.CategoryWedge:  10,
				golf.CategoryIron:   30,
				golf.CategoryHybrid: 55,
				golf.CategoryWood:   80,
				golf.CategoryDriver: 100,
			},
			golf.TerrainRoughHeavy: {
				golf.CategoryWedge:  8,
				golf.CategoryIron:   20,
				golf.CategoryHybrid: 40,
				golf.CategoryWood:   65,
				golf.CategoryDriver: 90,
			},
			golf.TerrainTrees: {
				golf.CategoryWedge:  12,
				golf.CategoryIron:   25,
				golf.CategoryHybrid: 45,
				golf.CategoryWood:   70,
				golf.CategoryDriver: 95,
			},
		},
		WaypointCurve: []CurvePoint{
			{Distance: 50, Risk: 0},
			{Distance: 100, Risk: 2},
			{Distance: 150, Risk: 6},
		},
		FlagCurve: []CurvePoint{
			{Distance: 50, Risk: 0},
			{Distance: 100, Risk: 6},
			{Distance: 150, Risk: 12},
			{Distance: 200, Risk: 20},
		},
	}
}

// RiskModel scores candidate trajectories against a RiskTable. Scoring is
// pure: same inputs, same score, no side effects.
type RiskModel struct {
	table RiskTable
}

// NewRiskModel builds a model around the given table.
func NewRiskModel(table RiskTable) *RiskModel {
	return &RiskModel{table: table}
}

// Score grades one prospective shot. Missing inputs (no obstacles, no player
// stats, no recommended club) contribute zero rather than failing.
func (m *RiskModel) Score(
	obstacles []golf.Obstacle,
	distanceToTarget float64,
	target TargetKind,
	terrain golf.TerrainKind,
	club ClubRecommendation,
	stats []golf.ClubStatistic,
) RiskScore {
	breakdown := RiskBreakdown{
		BaseRisk:         m.baseRisk(obstacles),
		ObstaclePenalty:  m.obstaclePenalty(len(obstacles)),
		PrecisionPenalty: m.precisionPenalty(distanceToTarget, club, stats),
		CoveragePenalty:  m.coveragePenalty(len(obstacles), distanceToTarget),
	}
	breakdown.BaseRisk = round2(breakdown.BaseRisk)
	breakdown.ObstaclePenalty = round2(breakdown.ObstaclePenalty)
	breakdown.PrecisionPenalty = round2(breakdown.PrecisionPenalty)
	breakdown.CoveragePenalty = round2(breakdown.CoveragePenalty)

	obstacleValue := round2(breakdown.BaseRisk + breakdown.ObstaclePenalty +
		breakdown.PrecisionPenalty + breakdown.CoveragePenalty)
	terrainValue := round2(m.terrainClubRisk(terrain, club))
	distanceValue := round2(m.distanceTargetRisk(distanceToTarget, target))

	total := clamp(obstacleValue+terrainValue+distanceValue, 0, 100)
	return RiskScore{
		Total:              round2(total),
		ObstacleRisk:       ObstacleRisk{Value: obstacleValue, Breakdown: breakdown},
		TerrainClubRisk:    ComponentRisk{Value: terrainValue},
		DistanceTargetRisk: ComponentRisk{Value: distanceValue},
	}
}

// baseRisk is the worst single hazard on the line.
func (m *RiskModel) baseRisk(obstacles []golf.Obstacle) float64 {
	worst := 0.0
	for _, o := range obstacles {
		if v := m.table.BaseByObstacle[o.Kind]; v > worst {
			worst = v
		}
	}
	return worst
}

// obstaclePenalty charges a decaying surcharge for each hazard beyond the
// first: 5/2 for the second, 5/3 for the third, and so on.
func (m *RiskModel) obstaclePenalty(count int) float64 {
	penalty := 0.0
	for i := 1; i < count; i++ {
		penalty += 5.0 / float64(i+1)
	}
	return math.Min(penalty, maxObstaclePenalty)
}

// precisionPenalty charges for player dispersion once the club's average
// error exceeds 10% of the shot distance.
func (m *RiskModel) precisionPenalty(distance float64, club ClubRecommendation, stats []golf.ClubStatistic) float64 {
	if club.RecommendedClub == nil || distance <= 0 {
		return 0
	}
	st, ok := findClubStat(stats, *club.RecommendedClub)
	if !ok {
		return 0
	}
	errPct := st.AvgError / distance
	if errPct <= precisionErrorFloor {
		return 0
	}
	return math.Min(maxPrecisionPenalty, (errPct-precisionErrorFloor)*precisionErrorSlope)
}

// coveragePenalty charges for hazard density on short shots, where the
// obstacles crowd the landing area.
func (m *RiskModel) coveragePenalty(count int, distance float64) float64 {
	if count == 0 || distance >= coverageNearDistance {
		return 0
	}
	density := float64(count) / math.Max(distance, 1)
	if density <= coverageDensityFloor {
		return 0
	}
	return math.Min(maxCoveragePenalty, density*coverageDensitySlope)
}

func (m *RiskModel) terrainClubRisk(terrain golf.TerrainKind, club ClubRecommendation) float64 {
	if club.RecommendedClub == nil {
		return 0
	}
	category := club.Category
	if category == "" {
		category = golf.InferClubCategory(*club.RecommendedClub)
	}
	row, ok := m.table.TerrainClub[terrain]
	if !ok {
		// A lie inside a penalty area scores as fairway; its hazard cost
		// is already in the obstacle component.
		row = m.table.TerrainClub[golf.TerrainFairway]
	}
	return row[category]
}

func (m *RiskModel) distanceTargetRisk(distance float64, target TargetKind) float64 {
	if target == TargetWaypoint {
		return curveValue(m.table.WaypointCurve, distance)
	}
	return curveValue(m.table.FlagCurve, distance)
}

func findClubStat(stats []golf.ClubStatistic, clubName string) (golf.ClubStatistic, bool) {
	for _, st := range stats {
		if st.ClubName == clubName {
			return st, true
		}
	}
	return golf.ClubStatistic{}, false
}

// curveValue interpolates a piecewise-linear curve: flat at the first
// breakpoint's risk below it, flat at the last breakpoint's risk above it.
func curveValue(points []CurvePoint, distance float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if distance <= points[0].Distance {
		return points[0].Risk
	}
	for i := 1; i < len(points); i++ {
		if distance <= points[i].Distance {
			prev, next := points[i-1], points[i]
			frac := (distance - prev.Distance) / (next.Distance - prev.Distance)
			return prev.Risk + frac*(next.Risk-prev.Risk)
		}
	}
	return points[len(points)-1].Risk
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
