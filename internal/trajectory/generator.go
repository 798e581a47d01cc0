package trajectory

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/golf"
)

const (
	// nearBallRadiusMeters bounds how far an optimal path's start may sit
	// from the ball to count as starting "right here". Inclusive.
	nearBallRadiusMeters = 10.0

	// defaultMaxAccessibleMeters caps shot reach when the player has no
	// recorded club distances.
	defaultMaxAccessibleMeters = 250.0

	// maxCandidates caps how many candidates feed the ranker.
	maxCandidates = 3
)

// Generator assembles up to three viable candidates with a two-pass search:
// pre-surveyed optimal paths starting at the ball, then the direct flag shot
// and the hole's strategic points. The sweep stops the moment the third
// candidate lands, so which points get evaluated depends on provider order.
type Generator struct {
	provider  geodata.Provider
	evaluator *Evaluator
	logger    *logrus.Logger
}

// NewGenerator wires a candidate search over the provider and evaluator.
func NewGenerator(provider geodata.Provider, evaluator *Evaluator, logger *logrus.Logger) *Generator {
	return &Generator{provider: provider, evaluator: evaluator, logger: logger}
}

// Generate runs both passes and returns the surviving candidates, at most
// three, in discovery order.
func (g *Generator) Generate(ctx context.Context, holeID int64, ball golf.Position, stats []golf.ClubStatistic) ([]TrajectoryCandidate, error) {
	s := &searchState{
		maxAccessible: maxAccessibleDistance(stats),
		seen:          make(map[string]bool),
	}
	if err := g.nearBallPass(ctx, holeID, ball, stats, s); err != nil {
		return nil, err
	}
	if !s.full() {
		if err := g.strategicPass(ctx, holeID, ball, stats, s); err != nil {
			return nil, err
		}
	}
	g.logger.WithFields(logrus.Fields{
		"hole_id":    holeID,
		"candidates": len(s.candidates),
		"max_reach":  s.maxAccessible,
	}).Debug("Trajectory search finished")
	return s.candidates, nil
}

type searchState struct {
	candidates    []TrajectoryCandidate
	maxAccessible float64
	seen          map[string]bool
}

func (s *searchState) full() bool {
	return len(s.candidates) >= maxCandidates
}

// markSeen records the target position, reporting false when it was already
// evaluated. A rejected point is never retried.
func (s *searchState) markSeen(pos golf.Position) bool {
	key := positionKey(pos)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

// nearBallPass evaluates every surveyed optimal path whose start lies within
// 10 m of the ball and whose end the player can reach.
func (g *Generator) nearBallPass(ctx context.Context, holeID int64, ball golf.Position, stats []golf.ClubStatistic, s *searchState) error {
	paths, err := g.provider.AllOptimalPaths(ctx, holeID)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if s.full() {
			return nil
		}
		startDist, err := g.provider.DistanceBetween(ctx, ball, path.Start)
		if err != nil {
			return err
		}
		if startDist > nearBallRadiusMeters {
			continue
		}
		endDist, err := g.provider.DistanceBetween(ctx, ball, path.End)
		if err != nil {
			return err
		}
		if endDist > s.maxAccessible {
			continue
		}
		if !s.markSeen(path.End) {
			continue
		}
		cand, err := g.evaluator.Evaluate(ctx, holeID, ball, Target{
			Position:    path.End,
			Kind:        TargetWaypoint,
			Description: path.Description,
		}, stats)
		if err != nil {
			return err
		}
		if cand != nil {
			s.candidates = append(s.candidates, *cand)
		}
	}
	return nil
}

// strategicPass tries the direct flag shot first, then sweeps the strategic
// points nearest the flag. Points beyond the player's reach are skipped
// without counting against the sweep.
func (g *Generator) strategicPass(ctx context.Context, holeID int64, ball golf.Position, stats []golf.ClubStatistic, s *searchState) error {
	flag, err := g.provider.FlagPosition(ctx, holeID)
	if err != nil {
		return err
	}
	if !s.full() && !s.seen[positionKey(flag)] {
		flagDist, err := g.provider.DistanceBetween(ctx, ball, flag)
		if err != nil {
			return err
		}
		if flagDist <= s.maxAccessible {
			s.markSeen(flag)
			cand, err := g.evaluator.Evaluate(ctx, holeID, ball, Target{
				Position: flag,
				Kind:     TargetFlag,
			}, stats)
			if err != nil {
				return err
			}
			if cand != nil {
				s.candidates = append(s.candidates, *cand)
			}
		}
	}
	if s.full() {
		return nil
	}

	points, err := g.provider.StrategicPoints(ctx, holeID)
	if err != nil {
		return err
	}
	for _, sp := range points {
		if s.full() {
			return nil
		}
		dist, err := g.provider.DistanceBetween(ctx, ball, sp.Position)
		if err != nil {
			return err
		}
		if dist > s.maxAccessible {
			continue
		}
		if !s.markSeen(sp.Position) {
			continue
		}
		desc := sp.Description
		if desc == "" {
			desc = sp.Name
		}
		cand, err := g.evaluator.Evaluate(ctx, holeID, ball, Target{
			Position:    sp.Position,
			Kind:        TargetWaypoint,
			Description: desc,
		}, stats)
		if err != nil {
			return err
		}
		if cand != nil {
			s.candidates = append(s.candidates, *cand)
		}
	}
	return nil
}

// maxAccessibleDistance is the player's longest average club distance, or
// the 250 m default when nothing is recorded.
func maxAccessibleDistance(stats []golf.ClubStatistic) float64 {
	longest := 0.0
	for _, st := range stats {
		if st.AvgDistance > longest {
			longest = st.AvgDistance
		}
	}
	if longest <= 0 {
		return defaultMaxAccessibleMeters
	}
	return longest
}

// positionKey dedupes targets at roughly centimeter resolution.
func positionKey(p golf.Position) string {
	return fmt.Sprintf("%.7f,%.7f", p.Lat, p.Lon)
}
