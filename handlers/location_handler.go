package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/models"
)

type LocationHandler struct{}

func NewLocationHandler() *LocationHandler { return &LocationHandler{} }

type shareLocationReq struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// POST /student/location upserts the one row per student.
func (h *LocationHandler) Share(c echo.Context) error {
	uid, _ := getUserID(c)
	var req shareLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_COORDINATES"})
	}

	var rec models.Location
	err := database.DB.Where("student_id = ?", uid).First(&rec).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	rec.StudentID = uid
	rec.Latitude = req.Latitude
	rec.Longitude = req.Longitude
	rec.Accuracy = req.Accuracy
	rec.RecordedAt = time.Now()
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// GET /parent/children/:id/location
func (h *LocationHandler) ForChild(c echo.Context) error {
	uid, _ := getUserID(c)
	childID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if !parentHasChild(uid, childID) {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	return h.latest(c, childID)
}

// GET /warden/students/:id/location
func (h *LocationHandler) ForStudent(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	return h.latest(c, id)
}

func (h *LocationHandler) latest(c echo.Context, studentID uint) error {
	var rec models.Location
	if err := database.DB.Where("student_id = ?", studentID).First(&rec).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NO_LOCATION_SHARED"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}
