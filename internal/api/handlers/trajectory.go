package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/api/middleware"
	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/internal/trajectory"
	"github.com/kdigolf/caddie/pkg/utils"
)

// TrajectoryHandler runs the shot-planning engine and the standalone club
// recommender. Player identity comes from the token when present, from the
// body otherwise; anonymous callers get the standard distance table.
type TrajectoryHandler struct {
	planner     *trajectory.Planner
	recommender *trajectory.Recommender
	stats       *services.PlayerStatsService
	logger      *logrus.Logger
}

func NewTrajectoryHandler(planner *trajectory.Planner, recommender *trajectory.Recommender, stats *services.PlayerStatsService, logger *logrus.Logger) *TrajectoryHandler {
	return &TrajectoryHandler{
		planner:     planner,
		recommender: recommender,
		stats:       stats,
		logger:      logger,
	}
}

type trajectoryOptionsRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	HoleID    int64    `json:"hole_id" binding:"required,gt=0"`
	UserID    string   `json:"user_id"`
}

func (r trajectoryOptionsRequest) position() golf.Position {
	return golf.Position{Lat: *r.Latitude, Lon: *r.Longitude}
}

type clubRecommendationRequest struct {
	DistanceMeters *float64 `json:"distance_meters" binding:"required,gt=0"`
	UserID         string   `json:"user_id"`
}

// clubStatsFor loads the caller's club table. A failed lookup degrades to the
// standard table instead of failing the shot.
func (h *TrajectoryHandler) clubStatsFor(c *gin.Context, bodyUserID string) []golf.ClubStatistic {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		userID = bodyUserID
	}
	if userID == "" || h.stats == nil {
		return nil
	}

	stats, source, err := h.stats.ClubStatistics(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("Failed to load player club statistics")
		return nil
	}
	if source == services.SourceStandardTable {
		// The engine carries the standard table itself and labels it as such.
		return nil
	}
	h.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"source":  source,
	}).Debug("Club statistics resolved")
	return stats
}

// TrajectoryOptions plans the next shot: candidate trajectories scored on
// risk and ranked into optimal, risk and conservative roles. When no
// candidate survives validation the optimal slot carries spoken advice.
func (h *TrajectoryHandler) TrajectoryOptions(c *gin.Context) {
	var req trajectoryOptionsRequest
	if !bindPosition(c, &req) {
		return
	}

	stats := h.clubStatsFor(c, req.UserID)

	result, err := h.planner.PlanShot(c.Request.Context(), req.HoleID, req.position(), stats)
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}

	utils.SendSuccess(c, result)
}

// RecommendClub picks a club and swing for a raw target distance, outside the
// trajectory pipeline.
func (h *TrajectoryHandler) RecommendClub(c *gin.Context) {
	var req clubRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	stats := h.clubStatsFor(c, req.UserID)
	recommendation := h.recommender.Recommend(*req.DistanceMeters, stats)

	utils.SendSuccess(c, recommendation)
}
