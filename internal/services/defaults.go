package services

import (
	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/internal/models"
)

// Default per-club carry distances in meters by gender and skill level.
// Applied when a player has a profile but no recorded club statistics.
// Columns: beginner, intermediate, advanced, professional.
type defaultClubRow struct {
	name     string
	category golf.ClubCategory
	male     [4]float64
	female   [4]float64
}

var defaultClubRows = []defaultClubRow{
	{"Driver", golf.CategoryDriver, [4]float64{160, 190, 230, 270}, [4]float64{130, 160, 190, 220}},
	{"Madera 3", golf.CategoryWood, [4]float64{145, 175, 215, 250}, [4]float64{120, 150, 175, 205}},
	{"Madera 5", golf.CategoryWood, [4]float64{135, 165, 200, 235}, [4]float64{110, 140, 165, 195}},
	{"Híbrido 3", golf.CategoryHybrid, [4]float64{130, 160, 195, 230}, [4]float64{105, 135, 160, 190}},
	{"Híbrido 4", golf.CategoryHybrid, [4]float64{120, 150, 185, 215}, [4]float64{95, 125, 150, 175}},
	{"Hierro 4", golf.CategoryIron, [4]float64{140, 170, 200, 225}, [4]float64{110, 140, 170, 195}},
	{"Hierro 5", golf.CategoryIron, [4]float64{130, 160, 190, 215}, [4]float64{100, 130, 160, 185}},
	{"Hierro 6", golf.CategoryIron, [4]float64{120, 150, 180, 205}, [4]float64{95, 120, 150, 175}},
	{"Hierro 7", golf.CategoryIron, [4]float64{110, 140, 170, 195}, [4]float64{85, 110, 140, 165}},
	{"Hierro 8", golf.CategoryIron, [4]float64{100, 130, 160, 185}, [4]float64{75, 100, 130, 155}},
	{"Hierro 9", golf.CategoryIron, [4]float64{90, 120, 145, 170}, [4]float64{65, 90, 120, 145}},
	{"Pitching Wedge", golf.CategoryWedge, [4]float64{80, 110, 135, 155}, [4]float64{60, 85, 110, 130}},
	{"Gap Wedge", golf.CategoryWedge, [4]float64{65, 95, 115, 135}, [4]float64{50, 75, 95, 115}},
	{"Sand Wedge", golf.CategoryWedge, [4]float64{50, 80, 100, 120}, [4]float64{40, 65, 85, 105}},
	{"Lob Wedge", golf.CategoryWedge, [4]float64{35, 65, 85, 105}, [4]float64{30, 55, 75, 95}},
}

// Seeding ratios for statistics derived from a bare carry distance: spread of
// ±10% around the average and an error of 8% of the carry, half of it as the
// standard deviation.
const (
	defaultMinRatio      = 0.90
	defaultMaxRatio      = 1.10
	defaultErrorRatio    = 0.08
	defaultErrorStdRatio = 0.50
)

func skillColumn(skill models.SkillLevel) (int, bool) {
	switch skill {
	case models.SkillBeginner:
		return 0, true
	case models.SkillIntermediate:
		return 1, true
	case models.SkillAdvanced:
		return 2, true
	case models.SkillProfessional:
		return 3, true
	default:
		return 0, false
	}
}

// DefaultClubStatistics returns the engine-ready distance table for a gender
// and skill level, or nil when either value is outside the known buckets.
func DefaultClubStatistics(gender models.Gender, skill models.SkillLevel) []golf.ClubStatistic {
	col, ok := skillColumn(skill)
	if !ok {
		return nil
	}

	stats := make([]golf.ClubStatistic, 0, len(defaultClubRows))
	for _, row := range defaultClubRows {
		var avg float64
		switch gender {
		case models.GenderMale:
			avg = row.male[col]
		case models.GenderFemale:
			avg = row.female[col]
		default:
			return nil
		}

		stats = append(stats, golf.ClubStatistic{
			ClubName:    row.name,
			Category:    row.category,
			AvgDistance: avg,
			MinDistance: avg * defaultMinRatio,
			MaxDistance: avg * defaultMaxRatio,
			AvgError:    avg * defaultErrorRatio,
		})
	}
	return stats
}
