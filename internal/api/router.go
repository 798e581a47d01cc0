package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/api/handlers"
	"github.com/kdigolf/caddie/internal/api/middleware"
	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/internal/trajectory"
	"github.com/kdigolf/caddie/pkg/config"
	"github.com/kdigolf/caddie/pkg/database"
)

// SetupRoutes wires every API route onto the given group. The trajectory
// pipeline is built here, over whatever geodata provider the caller passes
// (PostGIS in production, the in-memory provider in tests).
func SetupRoutes(group *gin.RouterGroup, db *database.DB, cache *services.CacheService, provider geodata.Provider, stats *services.PlayerStatsService, weather *services.WeatherService, cfg *config.Config, logger *logrus.Logger) {
	planner := trajectory.NewPlanner(provider, trajectory.DefaultRiskTable(), logger)
	recommender := trajectory.NewRecommender()

	healthHandler := handlers.NewHealthHandler(db, cache)
	golfHandler := handlers.NewGolfHandler(provider, logger)
	trajectoryHandler := handlers.NewTrajectoryHandler(planner, recommender, stats, logger)
	coursesHandler := handlers.NewCoursesHandler(db, logger)
	playersHandler := handlers.NewPlayersHandler(stats, logger)
	weatherHandler := handlers.NewWeatherHandler(weather, logger)

	group.GET("/health", healthHandler.GetHealth)

	// Positional course queries and the shot planner. Identity is optional:
	// authenticated players get their own distance tables.
	golfGroup := group.Group("/golf")
	golfGroup.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		golfGroup.POST("/identify-hole", golfHandler.IdentifyHole)
		golfGroup.POST("/terrain-type", golfHandler.TerrainType)
		golfGroup.POST("/distance-to-hole", golfHandler.DistanceToHole)
		golfGroup.POST("/obstacles-between", golfHandler.ObstaclesBetween)
		golfGroup.POST("/nearest-optimal-shot", golfHandler.NearestOptimalShot)
		golfGroup.POST("/analysis", golfHandler.Analysis)
		golfGroup.POST("/trajectory-options", trajectoryHandler.TrajectoryOptions)
	}

	clubsGroup := group.Group("/clubs")
	clubsGroup.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		clubsGroup.POST("/recommend", trajectoryHandler.RecommendClub)
	}

	group.GET("/courses", coursesHandler.ListCourses)
	group.GET("/courses/:id", coursesHandler.GetCourse)

	playersGroup := group.Group("/players")
	playersGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		playersGroup.GET("/:id/club-statistics", playersHandler.GetClubStatistics)
		playersGroup.PUT("/:id/profile", playersHandler.UpsertProfile)
		playersGroup.POST("/:id/shots", playersHandler.RecordShot)
	}

	group.GET("/weather", weatherHandler.GetWeather)
}
