package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/internal/models"
	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/config"
	"github.com/kdigolf/caddie/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedDemoCourse(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		flushCache(cfg)
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Geography columns and the spatial queries need PostGIS
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return fmt.Errorf("failed to create PostGIS extension: %w", err)
	}

	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.GolfCourse{},
		&models.Hole{},
		&models.HolePoint{},
		&models.Obstacle{},
		&models.OptimalShot{},
		&models.StrategicPoint{},
		&models.GolfClub{},
		&models.PlayerProfile{},
		&models.PlayerClubStatistic{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes. The spatial ones carry every position query the API
	// serves, so they are GIST over the geography columns.
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_hole_fairway_gist ON hole USING gist(fairway_polygon)",
		"CREATE INDEX IF NOT EXISTS idx_hole_green_gist ON hole USING gist(green_polygon)",
		"CREATE INDEX IF NOT EXISTS idx_hole_point_position_gist ON hole_point USING gist(position)",
		"CREATE INDEX IF NOT EXISTS idx_obstacle_shape_gist ON obstacle USING gist(shape)",
		"CREATE INDEX IF NOT EXISTS idx_optimal_shot_path_gist ON optimal_shot USING gist(path)",
		"CREATE INDEX IF NOT EXISTS idx_strategic_point_position_gist ON strategic_point USING gist(position)",
		"CREATE INDEX IF NOT EXISTS idx_hole_point_hole_type ON hole_point(hole_id, type)",
		"CREATE INDEX IF NOT EXISTS idx_strategic_point_hole_priority ON strategic_point(hole_id, priority DESC)",
		"CREATE INDEX IF NOT EXISTS idx_player_club_stats_profile ON player_club_statistics(player_profile_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return seedClubCatalog(db)
}

// seedClubCatalog inserts the 16-club reference catalog. Safe to re-run;
// existing clubs are left alone.
func seedClubCatalog(db *database.DB) error {
	for _, c := range golf.StandardClubs() {
		club := models.GolfClub{
			Name:     c.ClubName,
			Category: c.Category,
			Number:   clubNumber(c.ClubName),
		}
		if err := db.Where("name = ?", club.Name).FirstOrCreate(&club).Error; err != nil {
			return fmt.Errorf("failed to seed club %q: %w", club.Name, err)
		}
	}
	logrus.Info("Seeded golf club catalog")
	return nil
}

// clubNumber extracts the trailing club number ("Hierro 7" is 7); unnumbered
// clubs get 0.
func clubNumber(name string) int {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return 0
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return n
}

// flushCache drops cached hole geometry so the API serves the fresh survey.
// Seeding works without Redis; an unreachable cache is only logged.
func flushCache(cfg *config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Warnf("Invalid Redis URL, skipping cache flush: %v", err)
		return
	}
	client := redis.NewClient(opt)
	defer client.Close()

	if err := services.NewCacheService(client).Flush(context.Background()); err != nil {
		logrus.Warnf("Failed to flush cache after seeding: %v", err)
		return
	}
	logrus.Info("Flushed cache")
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"player_club_statistics",
		"player_profile",
		"golf_club",
		"strategic_point",
		"optimal_shot",
		"obstacle",
		"hole_point",
		"hole",
		"golf_course",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

// seedDemoCourse loads a small two-hole practice course so the API answers
// something real before a survey is imported. Geometries are EWKT; PostGIS
// parses them on insert.
func seedDemoCourse(db *database.DB) error {
	course := &models.GolfCourse{
		Name:     "Campo Escuela KDI",
		Location: "SRID=4326;POINT(-8.4010 43.3050)",
	}
	if err := db.Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	holes := []models.Hole{
		{
			CourseID:       course.ID,
			HoleNumber:     1,
			Par:            4,
			Length:         330,
			FairwayPolygon: "SRID=4326;POLYGON((-8.4006 43.2998, -8.3994 43.2998, -8.3994 43.3026, -8.4006 43.3026, -8.4006 43.2998))",
			GreenPolygon:   "SRID=4326;POLYGON((-8.4003 43.3026, -8.3997 43.3026, -8.3997 43.3033, -8.4003 43.3033, -8.4003 43.3026))",
		},
		{
			CourseID:       course.ID,
			HoleNumber:     2,
			Par:            3,
			Length:         155,
			FairwayPolygon: "SRID=4326;POLYGON((-8.3996 43.3028, -8.3984 43.3028, -8.3984 43.3042, -8.3996 43.3042, -8.3996 43.3028))",
			GreenPolygon:   "SRID=4326;POLYGON((-8.3993 43.3042, -8.3987 43.3042, -8.3987 43.3047, -8.3993 43.3047, -8.3993 43.3042))",
		},
	}
	if err := db.Create(&holes).Error; err != nil {
		return fmt.Errorf("failed to create holes: %w", err)
	}

	points := []models.HolePoint{
		{HoleID: holes[0].ID, Type: models.HolePointTee, Position: "SRID=4326;POINT(-8.4000 43.3000)"},
		{HoleID: holes[0].ID, Type: models.HolePointFlag, Position: "SRID=4326;POINT(-8.4000 43.3030)"},
		{HoleID: holes[0].ID, Type: models.HolePointGreenStart, Position: "SRID=4326;POINT(-8.4000 43.3026)"},
		{HoleID: holes[1].ID, Type: models.HolePointTee, Position: "SRID=4326;POINT(-8.3990 43.3030)"},
		{HoleID: holes[1].ID, Type: models.HolePointFlag, Position: "SRID=4326;POINT(-8.3990 43.3044)"},
	}
	if err := db.Create(&points).Error; err != nil {
		return fmt.Errorf("failed to create hole points: %w", err)
	}

	obstacles := []models.Obstacle{
		{
			HoleID: holes[0].ID,
			Type:   models.ObstacleTypeWater,
			Name:   "Lago del cruce",
			Shape:  "SRID=4326;POLYGON((-8.4005 43.3010, -8.3995 43.3010, -8.3995 43.3014, -8.4005 43.3014, -8.4005 43.3010))",
		},
		{
			HoleID: holes[1].ID,
			Type:   models.ObstacleTypeBunker,
			Name:   "Bunker derecho",
			Shape:  "SRID=4326;POLYGON((-8.3987 43.3040, -8.3983 43.3040, -8.3983 43.3043, -8.3987 43.3043, -8.3987 43.3040))",
		},
	}
	if err := db.Create(&obstacles).Error; err != nil {
		return fmt.Errorf("failed to create obstacles: %w", err)
	}

	shots := []models.OptimalShot{
		{
			HoleID:      holes[0].ID,
			Description: "Salida al centro de la calle, corta del lago",
			Path:        "SRID=4326;LINESTRING(-8.4000 43.3000, -8.4000 43.3008)",
		},
	}
	if err := db.Create(&shots).Error; err != nil {
		return fmt.Errorf("failed to create optimal shots: %w", err)
	}

	layupDistance := 133
	strategic := []models.StrategicPoint{
		{
			HoleID:         holes[0].ID,
			Type:           "layup",
			Name:           "Zona de layup",
			Description:    "Llano pasado el lago, deja un hierro corto a bandera",
			Position:       "SRID=4326;POINT(-8.4000 43.3018)",
			DistanceToFlag: &layupDistance,
			Priority:       5,
		},
	}
	if err := db.Create(&strategic).Error; err != nil {
		return fmt.Errorf("failed to create strategic points: %w", err)
	}

	logrus.Infof("Seeded course %q with %d holes", course.Name, len(holes))
	return nil
}
