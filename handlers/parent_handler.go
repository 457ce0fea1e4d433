package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/models"
)

type ParentHandler struct{}

func NewParentHandler() *ParentHandler { return &ParentHandler{} }

// parentHasChild is the ownership check shared by the parent-scoped
// fee/entry-exit/location endpoints.
func parentHasChild(parentID, studentID uint) bool {
	var n int64
	if err := database.DB.Model(&models.Student{}).
		Where("id = ? AND parent_id = ?", studentID, parentID).
		Count(&n).Error; err != nil {
		return false
	}
	return n > 0
}

// GET /parent/children
func (h *ParentHandler) Children(c echo.Context) error {
	uid, _ := getUserID(c)
	var rows []models.Student
	if err := database.DB.Where("parent_id = ?", uid).
		Order("roll_number ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

type parentPayload struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"` // required on create
	Name     string `json:"name"`
}

// GET /warden/parents?q=
func (h *ParentHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Parent{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var rows []models.Parent
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /warden/parents
func (h *ParentHandler) Create(c echo.Context) error {
	var p parentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	email := strings.TrimSpace(strings.ToLower(p.Email))
	pass := strings.TrimSpace(p.Password)
	if email == "" || pass == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	var dup models.Parent
	if err := database.DB.Where("email = ?", email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	rec := models.Parent{
		Email:    email,
		Phone:    strings.TrimSpace(p.Phone),
		Password: string(hash),
		Name:     strings.TrimSpace(p.Name),
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /warden/parents/:id
func (h *ParentHandler) Update(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var rec models.Parent
	if err := database.DB.First(&rec, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	var p parentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if email := strings.TrimSpace(strings.ToLower(p.Email)); email != "" {
		rec.Email = email
	}
	if phone := strings.TrimSpace(p.Phone); phone != "" {
		rec.Phone = phone
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		rec.Name = name
	}
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /warden/parents/:id (unlinks children first)
func (h *ParentHandler) Delete(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).
			Where("parent_id = ?", id).Update("parent_id", 0).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Parent{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

type linkChildReq struct {
	StudentRoll string `json:"student_roll"`
}

// POST /warden/parents/:id/link attaches a student by roll number.
func (h *ParentHandler) LinkChild(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var req linkChildReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	roll := strings.TrimSpace(req.StudentRoll)
	if roll == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	var parent models.Parent
	if err := database.DB.First(&parent, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	res := database.DB.Model(&models.Student{}).
		Where("roll_number = ?", roll).Update("parent_id", parent.ID)
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
