package models

import (
	"time"

	"gorm.io/datatypes"
)

// HolePointKind labels the surveyed reference points of a hole.
type HolePointKind string

const (
	HolePointTee        HolePointKind = "tee"
	HolePointFlag       HolePointKind = "flag"
	HolePointGreenStart HolePointKind = "green_start"
	HolePointTeeWhite   HolePointKind = "tee_white"
	HolePointTeeYellow  HolePointKind = "tee_yellow"
)

// ObstacleType mirrors the obstacle taxonomy used by the risk model.
type ObstacleType string

const (
	ObstacleTypeBunker      ObstacleType = "bunker"
	ObstacleTypeWater       ObstacleType = "water"
	ObstacleTypeTrees       ObstacleType = "trees"
	ObstacleTypeRoughHeavy  ObstacleType = "rough_heavy"
	ObstacleTypeOutOfBounds ObstacleType = "out_of_bounds"
)

// GolfCourse represents one surveyed course. Location is the clubhouse
// coordinate; Metadata holds course-guide attributes (designer, tee ratings)
// loaded from the survey file.
type GolfCourse struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Location  string         `gorm:"type:geography(Point,4326)" json:"-"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Associations
	Holes []Hole `gorm:"foreignKey:CourseID" json:"holes,omitempty"`
}

// TableName specifies the table name for GORM
func (GolfCourse) TableName() string {
	return "golf_course"
}

// Hole is one playing unit of a course with its surveyed polygons.
type Hole struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CourseID       uint   `gorm:"not null;index" json:"course_id"`
	HoleNumber     int    `gorm:"not null" json:"hole_number"`
	Par            int    `json:"par"`
	Length         int    `json:"length"` // meters, tee to flag along the fairway
	FairwayPolygon string `gorm:"type:geography(Polygon,4326)" json:"-"`
	GreenPolygon   string `gorm:"type:geography(Polygon,4326)" json:"-"`

	// Associations
	Points          []HolePoint      `gorm:"foreignKey:HoleID" json:"points,omitempty"`
	Obstacles       []Obstacle       `gorm:"foreignKey:HoleID" json:"obstacles,omitempty"`
	OptimalShots    []OptimalShot    `gorm:"foreignKey:HoleID" json:"optimal_shots,omitempty"`
	StrategicPoints []StrategicPoint `gorm:"foreignKey:HoleID" json:"strategic_points,omitempty"`
}

// TableName specifies the table name for GORM
func (Hole) TableName() string {
	return "hole"
}

// HolePoint is a surveyed reference point (tees, flag, green entry).
type HolePoint struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	HoleID   uint          `gorm:"not null;index" json:"hole_id"`
	Type     HolePointKind `gorm:"type:varchar(20);not null" json:"type"`
	Position string        `gorm:"type:geography(Point,4326)" json:"-"`
}

// TableName specifies the table name for GORM
func (HolePoint) TableName() string {
	return "hole_point"
}

// Obstacle is a surveyed hazard area on a hole.
type Obstacle struct {
	ID     uint         `gorm:"primaryKey" json:"id"`
	HoleID uint         `gorm:"not null;index" json:"hole_id"`
	Type   ObstacleType `gorm:"type:varchar(20);not null" json:"type"`
	Shape  string       `gorm:"type:geography(Geometry,4326)" json:"-"`
	Name   string       `json:"name"`
}

// TableName specifies the table name for GORM
func (Obstacle) TableName() string {
	return "obstacle"
}

// OptimalShot is a pre-surveyed recommended line on a hole, stored as a
// two-point linestring from the suggested origin to the landing zone.
type OptimalShot struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	HoleID      uint   `gorm:"not null;index" json:"hole_id"`
	Description string `json:"description"`
	Path        string `gorm:"type:geography(LineString,4326)" json:"-"`
}

// TableName specifies the table name for GORM
func (OptimalShot) TableName() string {
	return "optimal_shot"
}

// StrategicPoint is a named landing-zone candidate on a hole.
type StrategicPoint struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	HoleID         uint      `gorm:"not null;index" json:"hole_id"`
	Type           string    `gorm:"type:varchar(50);not null" json:"type"` // layup, landing_zone, safe_area
	Name           string    `gorm:"type:varchar(100)" json:"name"`
	Description    string    `json:"description"`
	Position       string    `gorm:"type:geography(Point,4326);not null" json:"-"`
	DistanceToFlag *int      `json:"distance_to_flag,omitempty"` // meters, may be unsurveyed
	Priority       int       `gorm:"default:5" json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (StrategicPoint) TableName() string {
	return "strategic_point"
}
