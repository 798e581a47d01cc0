package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/pkg/utils"
)

// GolfHandler answers positional questions about the course: which hole the
// ball is on, what lies between it and the flag, where the surveyed lines run.
type GolfHandler struct {
	provider geodata.Provider
	logger   *logrus.Logger
}

func NewGolfHandler(provider geodata.Provider, logger *logrus.Logger) *GolfHandler {
	return &GolfHandler{
		provider: provider,
		logger:   logger,
	}
}

// positionRequest is the shared body for position-only queries. Coordinates
// bind through pointers so latitude 0 or longitude 0 pass the required check.
type positionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

func (r positionRequest) position() golf.Position {
	return golf.Position{Lat: *r.Latitude, Lon: *r.Longitude}
}

type holePositionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	HoleID    int64    `json:"hole_id" binding:"required,gt=0"`
}

func (r holePositionRequest) position() golf.Position {
	return golf.Position{Lat: *r.Latitude, Lon: *r.Longitude}
}

type obstaclesBetweenRequest struct {
	Latitude        *float64 `json:"latitude" binding:"required"`
	Longitude       *float64 `json:"longitude" binding:"required"`
	HoleID          int64    `json:"hole_id" binding:"required,gt=0"`
	TargetLatitude  *float64 `json:"target_latitude"`
	TargetLongitude *float64 `json:"target_longitude"`
}

// bindPosition decodes and range-checks a position body, replying 400 itself
// on failure.
func bindPosition(c *gin.Context, req interface{ position() golf.Position }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return false
	}
	if !req.position().Valid() {
		utils.SendValidationError(c, "Coordinates out of range",
			"latitude must be in [-90, 90] and longitude in [-180, 180]")
		return false
	}
	return true
}

// sendGeodataError maps geodata sentinels onto the API error envelope.
func sendGeodataError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, geodata.ErrHoleNotFound):
		utils.SendNotFound(c, "Hole not found")
	case errors.Is(err, geodata.ErrNoFlag):
		utils.SendNotFound(c, "Hole has no flag position surveyed")
	default:
		logger.WithError(err).Error("Geodata query failed")
		utils.SendInternalError(c, "Failed to query course geodata")
	}
}

// IdentifyHole finds the hole whose fairway or green contains the position.
// The hole field is null when the ball is outside every surveyed hole.
func (h *GolfHandler) IdentifyHole(c *gin.Context) {
	var req positionRequest
	if !bindPosition(c, &req) {
		return
	}

	hole, err := h.provider.IdentifyHole(c.Request.Context(), req.position())
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}

	utils.SendSuccess(c, gin.H{"hole": hole})
}

// TerrainType classifies the lie under the position. terrain_type is null for
// normal fairway or green lies.
func (h *GolfHandler) TerrainType(c *gin.Context) {
	var req holePositionRequest
	if !bindPosition(c, &req) {
		return
	}

	terrain, err := h.provider.TerrainAt(c.Request.Context(), req.HoleID, req.position())
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}

	var terrainValue interface{}
	if terrain != golf.TerrainFairway {
		terrainValue = terrain
	}
	utils.SendSuccess(c, gin.H{
		"hole_id":      req.HoleID,
		"terrain_type": terrainValue,
	})
}

// DistanceToHole measures from the position to the hole's flag.
func (h *GolfHandler) DistanceToHole(c *gin.Context) {
	var req holePositionRequest
	if !bindPosition(c, &req) {
		return
	}

	meters, err := h.provider.DistanceToFlag(c.Request.Context(), req.HoleID, req.position())
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}

	utils.SendSuccess(c, gin.H{
		"hole_id":         req.HoleID,
		"distance_meters": meters,
		"distance_yards":  golf.Yards(meters),
	})
}

// ObstaclesBetween lists the hazards crossing the segment from the ball to
// the target, which defaults to the hole's flag.
func (h *GolfHandler) ObstaclesBetween(c *gin.Context) {
	var req obstaclesBetweenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	ball := golf.Position{Lat: *req.Latitude, Lon: *req.Longitude}
	if !ball.Valid() {
		utils.SendValidationError(c, "Coordinates out of range",
			"latitude must be in [-90, 90] and longitude in [-180, 180]")
		return
	}

	ctx := c.Request.Context()

	var target golf.Position
	switch {
	case req.TargetLatitude != nil && req.TargetLongitude != nil:
		target = golf.Position{Lat: *req.TargetLatitude, Lon: *req.TargetLongitude}
		if !target.Valid() {
			utils.SendValidationError(c, "Target coordinates out of range",
				"latitude must be in [-90, 90] and longitude in [-180, 180]")
			return
		}
	case req.TargetLatitude != nil || req.TargetLongitude != nil:
		utils.SendValidationError(c, "Incomplete target",
			"target_latitude and target_longitude must be provided together")
		return
	default:
		flag, err := h.provider.FlagPosition(ctx, req.HoleID)
		if err != nil {
			sendGeodataError(c, h.logger, err)
			return
		}
		target = flag
	}

	obstacles, err := h.provider.ObstaclesOnSegment(ctx, req.HoleID, ball, target)
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}
	if obstacles == nil {
		obstacles = []golf.Obstacle{}
	}

	utils.SendSuccess(c, gin.H{
		"hole_id":        req.HoleID,
		"obstacles":      obstacles,
		"obstacle_count": len(obstacles),
	})
}

// NearestOptimalShot returns the pre-surveyed line closest to the position.
// path is null when the hole has no surveyed lines.
func (h *GolfHandler) NearestOptimalShot(c *gin.Context) {
	var req holePositionRequest
	if !bindPosition(c, &req) {
		return
	}

	path, meters, err := h.provider.NearestOptimalPath(c.Request.Context(), req.HoleID, req.position())
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}

	if path == nil {
		utils.SendSuccess(c, gin.H{
			"hole_id": req.HoleID,
			"path":    nil,
		})
		return
	}

	utils.SendSuccess(c, gin.H{
		"hole_id":         req.HoleID,
		"path":            path,
		"distance_meters": meters,
	})
}

// Analysis bundles the per-position queries into one response: the hole under
// the ball, distance to its flag, the lie, and the hazards on the direct line.
func (h *GolfHandler) Analysis(c *gin.Context) {
	var req positionRequest
	if !bindPosition(c, &req) {
		return
	}

	ctx := c.Request.Context()
	ball := req.position()

	hole, err := h.provider.IdentifyHole(ctx, ball)
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}
	if hole == nil {
		utils.SendSuccess(c, gin.H{
			"hole":    nil,
			"message": "La posición no está sobre ningún hoyo registrado.",
		})
		return
	}

	analysis := gin.H{"hole": hole}

	if meters, err := h.provider.DistanceToFlag(ctx, hole.ID, ball); err == nil {
		analysis["distance_meters"] = meters
		analysis["distance_yards"] = golf.Yards(meters)
	} else if !errors.Is(err, geodata.ErrNoFlag) {
		sendGeodataError(c, h.logger, err)
		return
	}

	terrain, err := h.provider.TerrainAt(ctx, hole.ID, ball)
	if err != nil {
		sendGeodataError(c, h.logger, err)
		return
	}
	if terrain != golf.TerrainFairway {
		analysis["terrain_type"] = terrain
	} else {
		analysis["terrain_type"] = nil
	}

	if flag, err := h.provider.FlagPosition(ctx, hole.ID); err == nil {
		obstacles, err := h.provider.ObstaclesOnSegment(ctx, hole.ID, ball, flag)
		if err != nil {
			sendGeodataError(c, h.logger, err)
			return
		}
		if obstacles == nil {
			obstacles = []golf.Obstacle{}
		}
		analysis["obstacles"] = obstacles
		analysis["obstacle_count"] = len(obstacles)
	}

	utils.SendSuccess(c, analysis)
}
