package golf

import "strings"

// standardClubs is the built-in distance table used when a player has no
// recorded statistics. Distances are meters for an average amateur.
var standardClubs = []ClubStatistic{
	{ClubName: "Driver", Category: CategoryDriver, AvgDistance: 230},
	{ClubName: "Madera 3", Category: CategoryWood, AvgDistance: 215},
	{ClubName: "Madera 5", Category: CategoryWood, AvgDistance: 200},
	{ClubName: "Híbrido 3", Category: CategoryHybrid, AvgDistance: 195},
	{ClubName: "Híbrido 4", Category: CategoryHybrid, AvgDistance: 185},
	{ClubName: "Hierro 3", Category: CategoryIron, AvgDistance: 180},
	{ClubName: "Hierro 4", Category: CategoryIron, AvgDistance: 170},
	{ClubName: "Hierro 5", Category: CategoryIron, AvgDistance: 160},
	{ClubName: "Hierro 6", Category: CategoryIron, AvgDistance: 150},
	{ClubName: "Hierro 7", Category: CategoryIron, AvgDistance: 140},
	{ClubName: "Hierro 8", Category: CategoryIron, AvgDistance: 130},
	{ClubName: "Hierro 9", Category: CategoryIron, AvgDistance: 120},
	{ClubName: "Pitching Wedge", Category: CategoryWedge, AvgDistance: 110},
	{ClubName: "Gap Wedge", Category: CategoryWedge, AvgDistance: 95},
	{ClubName: "Sand Wedge", Category: CategoryWedge, AvgDistance: 80},
	{ClubName: "Lob Wedge", Category: CategoryWedge, AvgDistance: 65},
}

// StandardClubs returns a copy of the built-in 16-club distance table,
// ordered longest to shortest.
func StandardClubs() []ClubStatistic {
	out := make([]ClubStatistic, len(standardClubs))
	copy(out, standardClubs)
	return out
}

// InferClubCategory derives a category from a club's display name. Only for
// the data-import boundary; stored statistics carry an explicit category and
// scoring never re-infers it.
func InferClubCategory(name string) ClubCategory {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "driver"):
		return CategoryDriver
	case strings.Contains(n, "madera") || strings.Contains(n, "wood"):
		return CategoryWood
	case strings.Contains(n, "híbrido") || strings.Contains(n, "hibrido") || strings.Contains(n, "hybrid"):
		return CategoryHybrid
	case strings.Contains(n, "wedge"):
		return CategoryWedge
	default:
		return CategoryIron
	}
}
