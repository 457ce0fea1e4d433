package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/models"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// ===== Validation rules =====
var (
	stuReRoll  = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)
	stuReName  = regexp.MustCompile(`^[A-Za-z\s\.]{1,100}$`)
	stuReRoom  = regexp.MustCompile(`^[A-Za-z0-9\-]{1,10}$`)
	stuRePhone = regexp.MustCompile(`^[0-9\- ]{9,15}$`)
)

type studentPayload struct {
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"` // required on create, ignored on update
	Phone      string `json:"phone"`
	Room       string `json:"room"`
	Course     string `json:"course"`
	Year       int    `json:"year"`
	ParentID   uint   `json:"parent_id"`
	Status     string `json:"status"`
}

func (p *studentPayload) normalize() {
	p.RollNumber = strings.TrimSpace(p.RollNumber)
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.Room = strings.TrimSpace(p.Room)
	p.Course = strings.TrimSpace(p.Course)
	p.Status = strings.TrimSpace(p.Status)
}

func validateStudent(p *studentPayload, create bool) map[string]string {
	errs := map[string]string{}
	if !stuReRoll.MatchString(p.RollNumber) {
		errs["roll_number"] = "roll number must be 1-20 letters/digits/dashes"
	}
	if !stuReName.MatchString(p.Name) {
		errs["name"] = "name must be letters and spaces"
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		errs["email"] = "valid email required"
	}
	if create && len(strings.TrimSpace(p.Password)) < 4 {
		errs["password"] = "password of at least 4 characters required"
	}
	if p.Phone != "" && !stuRePhone.MatchString(p.Phone) {
		errs["phone"] = "phone must be 9-15 digits"
	}
	if !stuReRoom.MatchString(p.Room) {
		errs["room"] = "room is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /warden/students?q=&room=&status=&presence=
func (h *StudentHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Student{})

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(roll_number) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	if room := strings.TrimSpace(c.QueryParam("room")); room != "" {
		tx = tx.Where("room = ?", room)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		tx = tx.Where("status = ?", status)
	}
	if presence := strings.TrimSpace(c.QueryParam("presence")); presence != "" {
		tx = tx.Where("presence = ?", presence)
	}

	var rows []models.Student
	if err := tx.Order("roll_number ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /warden/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var s models.Student
	if err := database.DB.First(&s, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /warden/students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p, true); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION", "fields": errs})
	}

	var dup models.Student
	if err := database.DB.Where("roll_number = ? OR email = ?", p.RollNumber, p.Email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "STUDENT_EXISTS"})
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(p.Password)), bcrypt.DefaultCost)
	status := p.Status
	if status == "" {
		status = "active"
	}
	rec := models.Student{
		RollNumber: p.RollNumber,
		Name:       p.Name,
		Email:      p.Email,
		Password:   string(hash),
		Phone:      p.Phone,
		Room:       p.Room,
		Course:     p.Course,
		Year:       p.Year,
		ParentID:   p.ParentID,
		Presence:   models.PresenceOut,
		Status:     status,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /warden/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var rec models.Student
	if err := database.DB.First(&rec, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p, false); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION", "fields": errs})
	}

	rec.RollNumber = p.RollNumber
	rec.Name = p.Name
	rec.Email = p.Email
	rec.Phone = p.Phone
	rec.Room = p.Room
	rec.Course = p.Course
	rec.Year = p.Year
	rec.ParentID = p.ParentID
	if p.Status != "" {
		rec.Status = p.Status
	}
	// presence is owned by the entry/exit engine, never set here
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /warden/students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.Delete(&models.Student{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// GET /student/me
func (h *StudentHandler) Me(c echo.Context) error {
	uid, _ := getUserID(c)
	var s models.Student
	if err := database.DB.First(&s, uid).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, s)
}
