package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/kdigolf/caddie/internal/golf"
)

// Gender values accepted for default distance lookups.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// SkillLevel buckets used by the default distance tables.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillProfessional SkillLevel = "professional"
)

// GolfClub is the club catalog. Category is assigned when the club is
// entered (inferred from the name only at import, never during scoring).
type GolfClub struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	Name     string            `gorm:"not null;uniqueIndex" json:"name"`
	Category golf.ClubCategory `gorm:"type:varchar(20);not null" json:"category"`
	Number   int               `json:"number"` // 0 for unnumbered clubs (driver, wedges)
}

// TableName specifies the table name for GORM
func (GolfClub) TableName() string {
	return "golf_club"
}

// PlayerProfile holds the playing profile of an externally managed account.
// UserID is the identity provider's subject; accounts themselves live outside
// this service.
type PlayerProfile struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"`
	Handicap      *float64   `json:"handicap,omitempty"`
	Gender        Gender     `gorm:"type:varchar(10)" json:"gender"`
	PreferredHand string     `gorm:"type:varchar(10)" json:"preferred_hand"` // right, left
	YearsPlaying  int        `json:"years_playing"`
	SkillLevel    SkillLevel `gorm:"type:varchar(20)" json:"skill_level"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	ClubStatistics []PlayerClubStatistic `gorm:"foreignKey:PlayerProfileID" json:"club_statistics,omitempty"`
}

// TableName specifies the table name for GORM
func (PlayerProfile) TableName() string {
	return "player_profile"
}

// PlayerClubStatistic is one player's measured distance profile for one club.
// RecentDistances keeps a rolling window of recorded carries; the refresher
// recomputes the aggregate columns from it.
type PlayerClubStatistic struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	PlayerProfileID       uint            `gorm:"not null;uniqueIndex:idx_player_club,priority:1" json:"player_profile_id"`
	GolfClubID            uint            `gorm:"not null;uniqueIndex:idx_player_club,priority:2" json:"golf_club_id"`
	Club                  *GolfClub       `gorm:"foreignKey:GolfClubID" json:"club,omitempty"`
	AverageDistanceMeters float64         `json:"average_distance_meters"`
	MinDistanceMeters     float64         `json:"min_distance_meters"`
	MaxDistanceMeters     float64         `json:"max_distance_meters"`
	AverageErrorMeters    float64         `json:"average_error_meters"`
	ErrorStdDeviation     float64         `json:"error_std_deviation"`
	ShotsRecorded         int             `gorm:"default:0" json:"shots_recorded"`
	RecentDistances       pq.Float64Array `gorm:"type:double precision[]" json:"recent_distances,omitempty"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerClubStatistic) TableName() string {
	return "player_club_statistics"
}

// ToClubStatistic maps the stored row onto the engine's value type.
func (s *PlayerClubStatistic) ToClubStatistic() golf.ClubStatistic {
	cs := golf.ClubStatistic{
		AvgDistance: s.AverageDistanceMeters,
		MinDistance: s.MinDistanceMeters,
		MaxDistance: s.MaxDistanceMeters,
		AvgError:    s.AverageErrorMeters,
	}
	if s.Club != nil {
		cs.ClubName = s.Club.Name
		cs.Category = s.Club.Category
	}
	return cs
}
