package golf

// YardsPerMeter converts meters to yards (1 m = 1.09361 yd).
const YardsPerMeter = 1.09361

// Position is a geodetic coordinate on the course. Value type, never mutated.
type Position struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether the coordinate is inside the WGS84 domain.
func (p Position) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// ObstacleKind classifies course hazards.
type ObstacleKind string

const (
	ObstacleWater       ObstacleKind = "water"
	ObstacleOutOfBounds ObstacleKind = "out_of_bounds"
	ObstacleTrees       ObstacleKind = "trees"
	ObstacleRoughHeavy  ObstacleKind = "rough_heavy"
	ObstacleBunker      ObstacleKind = "bunker"
)

// Obstacle is a hazard crossing or surrounding a shot line. Read-only,
// sourced from the geodata provider per query.
type Obstacle struct {
	ID   int64        `json:"id"`
	Kind ObstacleKind `json:"type"`
	Name string       `json:"name,omitempty"`
}

// TerrainKind describes the lie under a ball position. The empty value
// means normal fairway/green terrain (serialized as null upstream).
type TerrainKind string

const (
	TerrainFairway    TerrainKind = ""
	TerrainTee        TerrainKind = "tee"
	TerrainBunker     TerrainKind = "bunker"
	TerrainRoughHeavy TerrainKind = "rough_heavy"
	TerrainTrees      TerrainKind = "trees"

	// A ball can also sit inside a penalty area; these map to the fairway
	// row when looking up terrain risk.
	TerrainWater       TerrainKind = "water"
	TerrainOutOfBounds TerrainKind = "out_of_bounds"
)

// StrategicPoint is a pre-surveyed landing-zone candidate on a hole.
type StrategicPoint struct {
	ID             int64    `json:"id"`
	Position       Position `json:"position"`
	DistanceToFlag *float64 `json:"distance_to_flag,omitempty"` // meters, may be unsurveyed
	Priority       int      `json:"priority"`                   // higher = more important
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// OptimalPath is a pre-surveyed ideal line on a hole, e.g. around a dogleg.
type OptimalPath struct {
	ID          int64    `json:"id"`
	Start       Position `json:"start"`
	End         Position `json:"end"`
	Description string   `json:"description,omitempty"`
}

// HoleInfo is the provider's summary of one hole.
type HoleInfo struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	Number     int    `json:"hole_number"`
	Par        int    `json:"par"`
	Length     int    `json:"length"`
	CourseName string `json:"course_name,omitempty"`
}

// ClubCategory groups clubs by flight profile for terrain risk lookups.
type ClubCategory string

const (
	CategoryWedge  ClubCategory = "wedge"
	CategoryIron   ClubCategory = "iron"
	CategoryHybrid ClubCategory = "hybrid"
	CategoryWood   ClubCategory = "wood"
	CategoryDriver ClubCategory = "driver"
)

// ClubStatistic holds one club's distance profile, either measured from a
// player's recorded shots or taken from the standard table.
type ClubStatistic struct {
	ClubName    string       `json:"club_name"`
	Category    ClubCategory `json:"category"`
	AvgDistance float64      `json:"average_distance_meters"`
	MinDistance float64      `json:"min_distance_meters"`
	MaxDistance float64      `json:"max_distance_meters"`
	AvgError    float64      `json:"average_error_meters"`
}

// Yards converts a distance in meters to yards.
func Yards(meters float64) float64 {
	return meters * YardsPerMeter
}
