package trajectory

import (
	"math"
	"sort"

	"github.com/kdigolf/caddie/internal/golf"
)

// maxAlternatives bounds the diagnostic list of nearby clubs.
const maxAlternatives = 5

// Swing fraction breakpoints on target/average distance.
const (
	fullSwingRatio         = 0.95
	threeQuarterSwingRatio = 0.70
)

// Recommender picks clubs for target distances. The zero value is unusable;
// construct with NewRecommender.
type Recommender struct {
	standard []golf.ClubStatistic
}

// NewRecommender builds a recommender backed by the standard distance table.
func NewRecommender() *Recommender {
	return &Recommender{standard: golf.StandardClubs()}
}

// Recommend picks the club whose average carry sits closest to the target
// distance. Player statistics win over the standard table; equally close
// clubs resolve to the shorter one. With no usable distances at all the
// result has Source none and nil club fields.
func (r *Recommender) Recommend(targetDistance float64, stats []golf.ClubStatistic) ClubRecommendation {
	table, source := r.distanceTable(stats)
	rec := ClubRecommendation{
		DistanceToTarget: round2(targetDistance),
		Source:           source,
	}
	if len(table) == 0 {
		rec.Source = SourceNone
		return rec
	}

	sorted := make([]golf.ClubStatistic, len(table))
	copy(sorted, table)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := math.Abs(sorted[i].AvgDistance - targetDistance)
		dj := math.Abs(sorted[j].AvgDistance - targetDistance)
		if di != dj {
			return di < dj
		}
		return sorted[i].AvgDistance < sorted[j].AvgDistance
	})

	chosen := sorted[0]
	name := chosen.ClubName
	avg := round2(chosen.AvgDistance)
	recommended := round2(math.Min(targetDistance, chosen.AvgDistance))
	swing := swingFor(targetDistance / chosen.AvgDistance)

	rec.RecommendedClub = &name
	rec.Category = chosen.Category
	if rec.Category == "" {
		rec.Category = golf.InferClubCategory(chosen.ClubName)
	}
	rec.ClubAvgDistance = &avg
	rec.RecommendedDistance = &recommended
	rec.Swing = &swing

	limit := maxAlternatives
	if len(sorted) < limit {
		limit = len(sorted)
	}
	rec.Alternatives = make([]ClubAlternative, 0, limit)
	for _, st := range sorted[:limit] {
		rec.Alternatives = append(rec.Alternatives, ClubAlternative{
			Club:        st.ClubName,
			AvgDistance: round2(st.AvgDistance),
			Difference:  round2(math.Abs(st.AvgDistance - targetDistance)),
		})
	}
	return rec
}

// distanceTable returns the usable club distances and where they came from.
// Player rows with non-positive averages are dropped; a player with no rows
// at all falls back to the standard table.
func (r *Recommender) distanceTable(stats []golf.ClubStatistic) ([]golf.ClubStatistic, RecommendationSource) {
	if len(stats) == 0 {
		return r.standard, SourceStandard
	}
	usable := make([]golf.ClubStatistic, 0, len(stats))
	for _, st := range stats {
		if st.AvgDistance > 0 {
			usable = append(usable, st)
		}
	}
	return usable, SourcePlayerProfile
}

func swingFor(ratio float64) SwingType {
	switch {
	case ratio >= fullSwingRatio:
		return SwingFull
	case ratio >= threeQuarterSwingRatio:
		return SwingThreeQuarter
	default:
		return SwingHalf
	}
}
