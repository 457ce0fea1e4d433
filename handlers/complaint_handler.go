package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/models"
)

type ComplaintHandler struct{}

func NewComplaintHandler() *ComplaintHandler { return &ComplaintHandler{} }

type complaintReq struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// POST /student/complaints
func (h *ComplaintHandler) Create(c echo.Context) error {
	uid, _ := getUserID(c)
	var req complaintReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	subject := strings.TrimSpace(req.Subject)
	desc := strings.TrimSpace(req.Description)
	if subject == "" || desc == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	rec := models.Complaint{
		StudentID:   uid,
		Subject:     subject,
		Description: desc,
		Status:      models.ComplaintOpen,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /student/complaints
func (h *ComplaintHandler) ListMine(c echo.Context) error {
	uid, _ := getUserID(c)
	var rows []models.Complaint
	if err := database.DB.Where("student_id = ?", uid).
		Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /warden/complaints?status=&studentId=
func (h *ComplaintHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Complaint{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		tx = tx.Where("status = ?", status)
	}
	if sid := strings.TrimSpace(c.QueryParam("studentId")); sid != "" {
		tx = tx.Where("student_id = ?", sid)
	}
	var rows []models.Complaint
	if err := tx.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

type resolveReq struct {
	Resolution string `json:"resolution"`
}

// POST /warden/complaints/:id/resolve is guarded on Open so two wardens
// cannot both resolve the same complaint
func (h *ComplaintHandler) Resolve(c echo.Context) error {
	uid, _ := getUserID(c)
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var req resolveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	resolution := strings.TrimSpace(req.Resolution)
	if resolution == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "RESOLUTION_REQUIRED"})
	}

	now := time.Now()
	res := database.DB.Model(&models.Complaint{}).
		Where("id = ? AND status = ?", id, models.ComplaintOpen).
		Updates(map[string]any{
			"status":      models.ComplaintResolved,
			"resolution":  resolution,
			"resolved_by": uid,
			"resolved_at": &now,
		})
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		var rec models.Complaint
		if err := database.DB.First(&rec, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
			}
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_RESOLVED"})
	}
	var rec models.Complaint
	if err := database.DB.First(&rec, id).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}
