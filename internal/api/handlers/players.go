package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/utils"
)

// PlayersHandler manages player profiles and recorded club distances. All
// routes sit behind AuthRequired; the :id parameter is the identity
// provider's subject.
type PlayersHandler struct {
	stats  *services.PlayerStatsService
	logger *logrus.Logger
}

func NewPlayersHandler(stats *services.PlayerStatsService, logger *logrus.Logger) *PlayersHandler {
	return &PlayersHandler{
		stats:  stats,
		logger: logger,
	}
}

type recordShotRequest struct {
	Club           string   `json:"club" binding:"required"`
	DistanceMeters *float64 `json:"distance_meters" binding:"required,gt=0"`
}

// GetClubStatistics returns the player's club distance table and which source
// produced it: recorded shots, gender defaults, or the standard table.
func (h *PlayersHandler) GetClubStatistics(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		utils.SendValidationError(c, "Player ID required", "")
		return
	}

	clubs, source, err := h.stats.ClubStatistics(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load club statistics")
		utils.SendInternalError(c, "Failed to load club statistics")
		return
	}

	utils.SendSuccess(c, gin.H{
		"user_id": userID,
		"source":  source,
		"clubs":   clubs,
	})
}

// UpsertProfile creates or updates the playing profile and seeds the default
// club distance table for new gender/skill combinations.
func (h *PlayersHandler) UpsertProfile(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		utils.SendValidationError(c, "Player ID required", "")
		return
	}

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	profile, err := h.stats.UpsertProfile(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to upsert player profile")
		utils.SendInternalError(c, "Failed to save player profile")
		return
	}

	utils.SendSuccess(c, profile)
}

// RecordShot appends a measured carry to the club's rolling window and
// returns the recomputed statistic row.
func (h *PlayersHandler) RecordShot(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		utils.SendValidationError(c, "Player ID required", "")
		return
	}

	var req recordShotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	row, err := h.stats.RecordShot(c.Request.Context(), userID, req.Club, *req.DistanceMeters)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			utils.SendNotFound(c, "Player profile not found")
		case errors.Is(err, services.ErrClubNotFound):
			utils.SendValidationError(c, "Unknown club", err.Error())
		default:
			h.logger.WithError(err).WithField("user_id", userID).Error("Failed to record shot")
			utils.SendInternalError(c, "Failed to record shot")
		}
		return
	}

	utils.SendSuccess(c, row)
}
