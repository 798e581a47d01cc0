package trajectory

import (
	"encoding/json"

	"github.com/kdigolf/caddie/internal/golf"
)

// TargetKind tells whether a candidate aims at the flag itself or at an
// intermediate landing zone.
type TargetKind string

const (
	TargetFlag     TargetKind = "flag"
	TargetWaypoint TargetKind = "waypoint"
)

// SwingType is the swing fraction recommended for the chosen club.
type SwingType string

const (
	SwingFull         SwingType = "completo"
	SwingThreeQuarter SwingType = "3/4"
	SwingHalf         SwingType = "1/2"
)

// RecommendationSource records which distance table produced a club choice.
type RecommendationSource string

const (
	SourcePlayerProfile RecommendationSource = "player_profile"
	SourceStandard      RecommendationSource = "standard_distances"
	SourceNone          RecommendationSource = "none"
)

// Target is a destination the generator asks the evaluator to score.
type Target struct {
	Position    golf.Position
	Kind        TargetKind
	Description string
}

// ClubAlternative is one nearby club in the diagnostic top-5 list.
type ClubAlternative struct {
	Club        string  `json:"club"`
	AvgDistance float64 `json:"average_distance_meters"`
	Difference  float64 `json:"difference_meters"`
}

// ClubRecommendation is the club, swing and distance advice for one shot.
// The nullable fields stay nil when no distance data exists at all. Category
// is resolved when the club is chosen so scoring never re-infers it from the
// display name.
type ClubRecommendation struct {
	RecommendedClub     *string              `json:"recommended_club"`
	Category            golf.ClubCategory    `json:"-"`
	ClubAvgDistance     *float64             `json:"club_avg_distance"`
	DistanceToTarget    float64              `json:"distance_to_target"`
	RecommendedDistance *float64             `json:"recommended_distance"`
	Swing               *SwingType           `json:"swing_type"`
	Source              RecommendationSource `json:"source"`
	Alternatives        []ClubAlternative    `json:"alternatives,omitempty"`
}

// RiskBreakdown itemizes the obstacle component of a risk score.
type RiskBreakdown struct {
	BaseRisk         float64 `json:"base_risk"`
	ObstaclePenalty  float64 `json:"obstacle_penalty"`
	PrecisionPenalty float64 `json:"precision_penalty"`
	CoveragePenalty  float64 `json:"coverage_penalty"`
}

// ObstacleRisk is the obstacle component with its breakdown.
type ObstacleRisk struct {
	Value     float64       `json:"value"`
	Breakdown RiskBreakdown `json:"breakdown"`
}

// ComponentRisk is a single-valued risk component.
type ComponentRisk struct {
	Value float64 `json:"value"`
}

// RiskScore is the composite 0-100 risk of one candidate trajectory.
type RiskScore struct {
	Total              float64       `json:"total"`
	ObstacleRisk       ObstacleRisk  `json:"obstacle_risk"`
	TerrainClubRisk    ComponentRisk `json:"terrain_club_risk"`
	DistanceTargetRisk ComponentRisk `json:"distance_target_risk"`
}

// TrajectoryCandidate is one scored, validated shot option. Candidates are
// built per request and never persisted.
type TrajectoryCandidate struct {
	DistanceMeters      float64            `json:"distance_meters"`
	DistanceYards       float64            `json:"distance_yards"`
	Target              TargetKind         `json:"target"`
	WaypointDescription string             `json:"waypoint_description,omitempty"`
	Obstacles           []golf.Obstacle    `json:"obstacles"`
	ObstacleCount       int                `json:"obstacle_count"`
	Risk                RiskScore          `json:"risk_level"`
	Club                ClubRecommendation `json:"club_recommendation"`
	Description         string             `json:"description,omitempty"`
}

// NoViableShotAdvice is the spoken fallback when every candidate fails the
// validity gate.
const NoViableShotAdvice = "Te recomiendo jugar un hierro rodado y buscar la calle."

// RankedResult assigns roles to the surviving candidates. When Optimal is
// nil no candidate survived and Advice carries the fallback message; the
// two cases are distinguishable without inspecting serialized output.
type RankedResult struct {
	Optimal      *TrajectoryCandidate
	Risk         *TrajectoryCandidate
	Conservative *TrajectoryCandidate
	Advice       string
}

// NoViableShot reports whether the result carries advice instead of a
// structured optimal trajectory.
func (r RankedResult) NoViableShot() bool {
	return r.Optimal == nil
}

type rankedResultJSON struct {
	Optimal      any                  `json:"trayectoria_optima"`
	Risk         *TrajectoryCandidate `json:"trayectoria_riesgo,omitempty"`
	Conservative *TrajectoryCandidate `json:"trayectoria_conservadora,omitempty"`
}

// MarshalJSON writes the wire shape the voice assistant consumes:
// trayectoria_optima is either a candidate object or the advice string.
func (r RankedResult) MarshalJSON() ([]byte, error) {
	out := rankedResultJSON{
		Risk:         r.Risk,
		Conservative: r.Conservative,
	}
	if r.Optimal != nil {
		out.Optimal = r.Optimal
	} else {
		out.Optimal = r.Advice
	}
	return json.Marshal(out)
}
