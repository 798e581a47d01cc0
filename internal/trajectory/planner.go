package trajectory

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/golf"
)

// Planner is the engine's front door: generate candidates for a ball
// position, rank them into roles.
type Planner struct {
	provider  geodata.Provider
	generator *Generator
	logger    *logrus.Logger
}

// NewPlanner wires the full pipeline over a geodata provider.
func NewPlanner(provider geodata.Provider, table RiskTable, logger *logrus.Logger) *Planner {
	model := NewRiskModel(table)
	clubs := NewRecommender()
	evaluator := NewEvaluator(provider, model, clubs)
	return &Planner{
		provider:  provider,
		generator: NewGenerator(provider, evaluator, logger),
		logger:    logger,
	}
}

// PlanShot produces the ranked trajectory options for a ball position on a
// hole. The hole must have a surveyed flag; geodata.ErrNoFlag propagates
// untouched so callers can map it to a client-facing error.
func (p *Planner) PlanShot(ctx context.Context, holeID int64, ball golf.Position, stats []golf.ClubStatistic) (RankedResult, error) {
	// Fail before the search rather than part-way through it.
	if _, err := p.provider.DistanceToFlag(ctx, holeID, ball); err != nil {
		return RankedResult{}, err
	}

	candidates, err := p.generator.Generate(ctx, holeID, ball, stats)
	if err != nil {
		return RankedResult{}, err
	}
	result := Rank(candidates)
	p.logger.WithFields(logrus.Fields{
		"hole_id":   holeID,
		"no_viable": result.NoViableShot(),
	}).Debug("Shot plan computed")
	return result, nil
}
