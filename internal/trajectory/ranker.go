package trajectory

import "sort"

// Rank assigns optimal, risk and conservative roles to at most three
// surviving candidates. Pure and deterministic: the same candidate set
// always yields the same roles.
func Rank(candidates []TrajectoryCandidate) RankedResult {
	if len(candidates) == 0 {
		return RankedResult{Advice: NoViableShotAdvice}
	}

	sorted := make([]TrajectoryCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Risk.Total != sorted[j].Risk.Total {
			return sorted[i].Risk.Total < sorted[j].Risk.Total
		}
		// Equal risk: the farther shot counts as the safer line.
		return sorted[i].DistanceMeters > sorted[j].DistanceMeters
	})

	switch len(sorted) {
	case 1:
		return RankedResult{Optimal: &sorted[0]}
	case 2:
		low, high := &sorted[0], &sorted[1]
		switch {
		case high.Risk.Total < LowRiskThreshold:
			// Both comfortably safe: take the bolder line, keep the
			// other as the fallback.
			return RankedResult{Optimal: high, Conservative: low}
		case low.Risk.Total > LowRiskThreshold:
			return RankedResult{Optimal: low, Risk: high}
		default:
			// Straddling the threshold: the bolder line takes the
			// optimal slot.
			return RankedResult{Optimal: high, Risk: low}
		}
	default:
		return RankedResult{
			Optimal:      &sorted[1],
			Risk:         &sorted[2],
			Conservative: &sorted[0],
		}
	}
}
