package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kdigolf/caddie/internal/models"
	"github.com/kdigolf/caddie/pkg/database"
	"github.com/kdigolf/caddie/pkg/utils"
)

// CoursesHandler serves the surveyed course catalog.
type CoursesHandler struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewCoursesHandler(db *database.DB, logger *logrus.Logger) *CoursesHandler {
	return &CoursesHandler{
		db:     db,
		logger: logger,
	}
}

// ListCourses returns every registered course without hole details.
func (h *CoursesHandler) ListCourses(c *gin.Context) {
	var courses []models.GolfCourse
	if err := h.db.Order("name ASC").Find(&courses).Error; err != nil {
		h.logger.WithError(err).Error("Failed to list courses")
		utils.SendInternalError(c, "Failed to list courses")
		return
	}

	utils.SendSuccessWithMeta(c, courses, &utils.Meta{Total: int64(len(courses))})
}

// GetCourse returns one course with its holes ordered by hole number.
func (h *CoursesHandler) GetCourse(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid course ID", err.Error())
		return
	}

	var course models.GolfCourse
	err = h.db.
		Preload("Holes", func(db *gorm.DB) *gorm.DB {
			return db.Order("hole_number ASC")
		}).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Course not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load course")
		utils.SendInternalError(c, "Failed to load course")
		return
	}

	utils.SendSuccess(c, course)
}
