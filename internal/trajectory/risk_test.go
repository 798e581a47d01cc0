package trajectory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdigolf/caddie/internal/golf"
)

func clubRec(name string, category golf.ClubCategory) ClubRecommendation {
	return ClubRecommendation{RecommendedClub: &name, Category: category}
}

func obstaclesOf(kinds ...golf.ObstacleKind) []golf.Obstacle {
	out := make([]golf.Obstacle, len(kinds))
	for i, k := range kinds {
		out[i] = golf.Obstacle{ID: int64(i + 1), Kind: k}
	}
	return out
}

func TestBaseRiskPerObstacleKind(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	tests := []struct {
		kind golf.ObstacleKind
		want float64
	}{
		{golf.ObstacleWater, 50},
		{golf.ObstacleOutOfBounds, 45},
		{golf.ObstacleTrees, 25},
		{golf.ObstacleRoughHeavy, 20},
		{golf.ObstacleBunker, 15},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			score := model.Score(obstaclesOf(tt.kind), 150, TargetWaypoint, golf.TerrainFairway, ClubRecommendation{}, nil)
			assert.Equal(t, tt.want, score.ObstacleRisk.Breakdown.BaseRisk)
		})
	}

	score := model.Score(nil, 150, TargetWaypoint, golf.TerrainFairway, ClubRecommendation{}, nil)
	assert.Zero(t, score.ObstacleRisk.Breakdown.BaseRisk, "no obstacles, no base risk")

	score = model.Score(obstaclesOf(golf.ObstacleBunker, golf.ObstacleWater, golf.ObstacleTrees),
		150, TargetWaypoint, golf.TerrainFairway, ClubRecommendation{}, nil)
	assert.Equal(t, 50.0, score.ObstacleRisk.Breakdown.BaseRisk, "worst hazard wins")
}

func TestObstaclePenaltyDecaysAndCaps(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	tests := []struct {
		count int
		want  float64
	}{
		{1, 0},
		{2, 2.5},
		{3, 4.17},
		{31, 15},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d obstacles", tt.count), func(t *testing.T) {
			kinds := make([]golf.ObstacleKind, tt.count)
			for i := range kinds {
				kinds[i] = golf.ObstacleBunker
			}
			score := model.Score(obstaclesOf(kinds...), 150, TargetWaypoint, golf.TerrainFairway, ClubRecommendation{}, nil)
			assert.Equal(t, tt.want, score.ObstacleRisk.Breakdown.ObstaclePenalty)
		})
	}
}

func TestPrecisionPenalty(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())
	stats := []golf.ClubStatistic{
		{ClubName: "Hierro 7", Category: golf.CategoryIron, AvgDistance: 140, AvgError: 18},
	}
	club := clubRec("Hierro 7", golf.CategoryIron)

	tests := []struct {
		name     string
		distance float64
		avgError float64
		want     float64
	}{
		{"error above the floor", 120, 18, 7.5},
		{"error exactly at the floor", 180, 18, 0},
		{"wild dispersion capped", 100, 60, 15},
		{"rounded to cents", 70, 8, 2.14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stats
			s[0].AvgError = tt.avgError
			score := model.Score(nil, tt.distance, TargetWaypoint, golf.TerrainFairway, club, s)
			assert.Equal(t, tt.want, score.ObstacleRisk.Breakdown.PrecisionPenalty)
		})
	}

	score := model.Score(nil, 120, TargetWaypoint, golf.TerrainFairway, club, nil)
	assert.Zero(t, score.ObstacleRisk.Breakdown.PrecisionPenalty, "no stats, no penalty")

	score = model.Score(nil, 0, TargetWaypoint, golf.TerrainFairway, club, stats)
	assert.Zero(t, score.ObstacleRisk.Breakdown.PrecisionPenalty, "zero distance degrades to zero")
}

func TestCoveragePenalty(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	tests := []struct {
		name     string
		count    int
		distance float64
		want     float64
	}{
		{"dense short shot", 2, 30, 10},
		{"single hazard too sparse", 1, 30, 0},
		{"long shot exempt", 2, 100, 0},
		{"below density floor", 2, 80, 0},
		{"barely over the floor still caps", 3, 59, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds := make([]golf.ObstacleKind, tt.count)
			for i := range kinds {
				kinds[i] = golf.ObstacleBunker
			}
			score := model.Score(obstaclesOf(kinds...), tt.distance, TargetWaypoint, golf.TerrainFairway, ClubRecommendation{}, nil)
			assert.Equal(t, tt.want, score.ObstacleRisk.Breakdown.CoveragePenalty)
		})
	}
}

func TestTerrainClubMatrix(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	tests := []struct {
		name    string
		terrain golf.TerrainKind
		club    ClubRecommendation
		want    float64
	}{
		{"driver off the tee", golf.TerrainTee, clubRec("Driver", golf.CategoryDriver), 2},
		{"driver off the deck", golf.TerrainFairway, clubRec("Driver", golf.CategoryDriver), 70},
		{"driver out of a bunker", golf.TerrainBunker, clubRec("Driver", golf.CategoryDriver), 100},
		{"wedge out of a bunker", golf.TerrainBunker, clubRec("Sand Wedge", golf.CategoryWedge), 10},
		{"iron out of the trees", golf.TerrainTrees, clubRec("Hierro 5", golf.CategoryIron), 25},
		{"hybrid from heavy rough", golf.TerrainRoughHeavy, clubRec("Híbrido 3", golf.CategoryHybrid), 40},
		{"ball in water scores as fairway lie", golf.TerrainWater, clubRec("Driver", golf.CategoryDriver), 70},
		{"ball out of bounds scores as fairway lie", golf.TerrainOutOfBounds, clubRec("Lob Wedge", golf.CategoryWedge), 2},
		{"no club recommended", golf.TerrainBunker, ClubRecommendation{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := model.Score(nil, 0, TargetWaypoint, tt.terrain, tt.club, nil)
			assert.Equal(t, tt.want, score.TerrainClubRisk.Value)
		})
	}
}

func TestTerrainClubInfersCategoryWhenUnset(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	name := "Madera 3"
	club := ClubRecommendation{RecommendedClub: &name}
	score := model.Score(nil, 0, TargetWaypoint, golf.TerrainFairway, club, nil)
	assert.Equal(t, 25.0, score.TerrainClubRisk.Value, "name-inferred wood on fairway")
}

func TestDistanceTargetCurves(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	tests := []struct {
		target   TargetKind
		distance float64
		want     float64
	}{
		{TargetWaypoint, 49.9, 0},
		{TargetWaypoint, 50, 0},
		{TargetWaypoint, 75, 1},
		{TargetWaypoint, 100, 2},
		{TargetWaypoint, 125, 4},
		{TargetWaypoint, 150, 6},
		{TargetWaypoint, 400, 6},
		{TargetFlag, 25, 0},
		{TargetFlag, 50, 0},
		{TargetFlag, 75, 3},
		{TargetFlag, 100, 6},
		{TargetFlag, 125, 9},
		{TargetFlag, 150, 12},
		{TargetFlag, 175, 16},
		{TargetFlag, 200, 20},
		{TargetFlag, 300, 20},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s at %.1fm", tt.target, tt.distance), func(t *testing.T) {
			score := model.Score(nil, tt.distance, tt.target, golf.TerrainFairway, ClubRecommendation{}, nil)
			assert.InDelta(t, tt.want, score.DistanceTargetRisk.Value, 1e-9)
		})
	}
}

func TestDistanceRiskMonotone(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	for _, target := range []TargetKind{TargetWaypoint, TargetFlag} {
		prev := -1.0
		for d := 0.0; d <= 300; d += 5 {
			score := model.Score(nil, d, target, golf.TerrainFairway, ClubRecommendation{}, nil)
			if score.DistanceTargetRisk.Value < prev {
				t.Fatalf("%s curve decreased at %.0fm: %.2f -> %.2f",
					target, d, prev, score.DistanceTargetRisk.Value)
			}
			prev = score.DistanceTargetRisk.Value
		}
	}
}

func TestTotalComposesAndClamps(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())

	score := model.Score(
		obstaclesOf(golf.ObstacleWater, golf.ObstacleBunker),
		180, TargetFlag, golf.TerrainFairway,
		clubRec("Driver", golf.CategoryDriver), nil,
	)
	assert.Equal(t, 52.5, score.ObstacleRisk.Value)
	assert.Equal(t, 70.0, score.TerrainClubRisk.Value)
	assert.Equal(t, 16.8, score.DistanceTargetRisk.Value)
	assert.Equal(t, 100.0, score.Total, "sum 139.3 clamps to 100")

	score = model.Score(nil, 10, TargetWaypoint, golf.TerrainTee, clubRec("Lob Wedge", golf.CategoryWedge), nil)
	assert.Zero(t, score.Total, "chip off the tee carries no risk")
}

func TestScoreTotalStaysInRange(t *testing.T) {
	model := NewRiskModel(DefaultRiskTable())
	kinds := []golf.ObstacleKind{
		golf.ObstacleWater, golf.ObstacleOutOfBounds, golf.ObstacleTrees,
		golf.ObstacleRoughHeavy, golf.ObstacleBunker,
	}

	for n := 0; n <= 6; n++ {
		for _, target := range []TargetKind{TargetWaypoint, TargetFlag} {
			for _, terrain := range []golf.TerrainKind{golf.TerrainFairway, golf.TerrainTee, golf.TerrainBunker, golf.TerrainTrees} {
				for d := 0.0; d <= 260; d += 65 {
					obs := make([]golf.Obstacle, 0, n)
					for i := 0; i < n; i++ {
						obs = append(obs, golf.Obstacle{ID: int64(i + 1), Kind: kinds[i%len(kinds)]})
					}
					score := model.Score(obs, d, target, terrain, clubRec("Driver", golf.CategoryDriver), nil)
					assert.GreaterOrEqual(t, score.Total, 0.0)
					assert.LessOrEqual(t, score.Total, 100.0)
				}
			}
		}
	}
}
