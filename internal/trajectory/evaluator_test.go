package trajectory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdigolf/caddie/internal/golf"
)

func newTestEvaluator(p *stubProvider) *Evaluator {
	return NewEvaluator(p, NewRiskModel(DefaultRiskTable()), NewRecommender())
}

func TestEvaluateBuildsCandidate(t *testing.T) {
	stub := &stubProvider{
		terrain: golf.TerrainTee,
		obstacles: func(a, b golf.Position) []golf.Obstacle {
			return []golf.Obstacle{{ID: 3, Kind: golf.ObstacleBunker, Name: "bunker de cruce"}}
		},
	}
	e := newTestEvaluator(stub)

	cand, err := e.Evaluate(context.Background(), 1, golf.Position{},
		Target{Position: golf.Position{Lat: 0, Lon: 180}, Kind: TargetFlag}, nil)
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Equal(t, 180.0, cand.DistanceMeters)
	assert.Equal(t, 196.85, cand.DistanceYards)
	assert.Equal(t, TargetFlag, cand.Target)
	assert.Equal(t, "Tiro directo a bandera", cand.Description)
	assert.Empty(t, cand.WaypointDescription)

	require.Len(t, cand.Obstacles, 1)
	assert.Equal(t, "bunker de cruce", cand.Obstacles[0].Name)
	assert.Equal(t, 1, cand.ObstacleCount)

	assert.Equal(t, 15.0, cand.Risk.ObstacleRisk.Value)
	assert.Equal(t, 0.0, cand.Risk.TerrainClubRisk.Value, "iron off the tee")
	assert.Equal(t, 16.8, cand.Risk.DistanceTargetRisk.Value)
	assert.Equal(t, 31.8, cand.Risk.Total)

	require.NotNil(t, cand.Club.RecommendedClub)
	assert.Equal(t, "Hierro 3", *cand.Club.RecommendedClub)
	assert.Equal(t, SwingFull, *cand.Club.Swing)
}

func TestEvaluateRejectsAboveGate(t *testing.T) {
	stub := &stubProvider{
		obstacles: func(a, b golf.Position) []golf.Obstacle {
			return []golf.Obstacle{{ID: 1, Kind: golf.ObstacleWater}}
		},
	}
	e := newTestEvaluator(stub)

	// Driver distance over water from the fairway scores far beyond 75.
	cand, err := e.Evaluate(context.Background(), 1, golf.Position{},
		Target{Position: golf.Position{Lat: 0, Lon: 230}, Kind: TargetFlag}, nil)
	require.NoError(t, err)
	assert.Nil(t, cand, "gate rejection is a nil candidate, not an error")
}

func TestEvaluateDefaultsToWaypoint(t *testing.T) {
	stub := &stubProvider{
		terrain: golf.TerrainTee,
		obstacles: func(a, b golf.Position) []golf.Obstacle {
			return []golf.Obstacle{{ID: 1, Kind: golf.ObstacleWater}}
		},
	}
	e := newTestEvaluator(stub)

	cand, err := e.Evaluate(context.Background(), 1, golf.Position{},
		Target{Position: golf.Position{Lat: 0, Lon: 230}}, nil)
	require.NoError(t, err)
	require.NotNil(t, cand, "same shot off the tee as a lay-up stays under the gate")
	assert.Equal(t, TargetWaypoint, cand.Target)
	assert.Equal(t, 58.0, cand.Risk.Total)
}

func TestEvaluateKeepsObstacleListNonNil(t *testing.T) {
	stub := &stubProvider{}
	e := newTestEvaluator(stub)

	cand, err := e.Evaluate(context.Background(), 1, golf.Position{},
		Target{Position: golf.Position{Lat: 0, Lon: 90}, Kind: TargetWaypoint, Description: "centro de calle"}, nil)
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.NotNil(t, cand.Obstacles)
	assert.Empty(t, cand.Obstacles)
	assert.Zero(t, cand.ObstacleCount)
	assert.Equal(t, "centro de calle", cand.WaypointDescription)
}
