package trajectory

import (
	"context"

	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/golf"
)

// Evaluator turns one prospective target into a scored candidate.
type Evaluator struct {
	provider geodata.Provider
	risk     *RiskModel
	clubs    *Recommender
}

// NewEvaluator wires the scoring pipeline for one provider.
func NewEvaluator(provider geodata.Provider, risk *RiskModel, clubs *Recommender) *Evaluator {
	return &Evaluator{provider: provider, risk: risk, clubs: clubs}
}

// Evaluate scores the straight shot from ball to target. It returns
// (nil, nil) when the candidate fails the validity gate, the only way a
// target drops out; provider failures propagate unchanged.
func (e *Evaluator) Evaluate(ctx context.Context, holeID int64, ball golf.Position, target Target, stats []golf.ClubStatistic) (*TrajectoryCandidate, error) {
	distance, err := e.provider.DistanceBetween(ctx, ball, target.Position)
	if err != nil {
		return nil, err
	}
	obstacles, err := e.provider.ObstaclesOnSegment(ctx, holeID, ball, target.Position)
	if err != nil {
		return nil, err
	}
	terrain, err := e.provider.TerrainAt(ctx, holeID, ball)
	if err != nil {
		return nil, err
	}

	kind := target.Kind
	if kind == "" {
		kind = TargetWaypoint
	}
	club := e.clubs.Recommend(distance, stats)
	score := e.risk.Score(obstacles, distance, kind, terrain, club, stats)
	if score.Total > MaxViableRisk {
		return nil, nil
	}

	if obstacles == nil {
		obstacles = []golf.Obstacle{}
	}
	cand := &TrajectoryCandidate{
		DistanceMeters: round2(distance),
		DistanceYards:  round2(golf.Yards(distance)),
		Target:         kind,
		Obstacles:      obstacles,
		ObstacleCount:  len(obstacles),
		Risk:           score,
		Club:           club,
	}
	if kind == TargetFlag {
		cand.Description = target.Description
		if cand.Description == "" {
			cand.Description = "Tiro directo a bandera"
		}
	} else {
		cand.WaypointDescription = target.Description
	}
	return cand, nil
}
