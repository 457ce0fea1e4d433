package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/models"
)

type ChatHandler struct{}

func NewChatHandler() *ChatHandler { return &ChatHandler{} }

type chatSendReq struct {
	Body string `json:"body"`
}

// POST /parent/chat
func (h *ChatHandler) ParentSend(c echo.Context) error {
	uid, _ := getUserID(c)
	return h.send(c, uid, models.RoleParent, uid)
}

// GET /parent/chat?after=
func (h *ChatHandler) ParentList(c echo.Context) error {
	uid, _ := getUserID(c)
	return h.list(c, uid)
}

// POST /warden/chat/:parentId
func (h *ChatHandler) WardenSend(c echo.Context) error {
	uid, _ := getUserID(c)
	parentID, ok := paramUint(c, "parentId")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var parent models.Parent
	if err := database.DB.First(&parent, parentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return h.send(c, parentID, models.RoleWarden, uid)
}

// GET /warden/chat/:parentId?after=
func (h *ChatHandler) WardenList(c echo.Context) error {
	parentID, ok := paramUint(c, "parentId")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	return h.list(c, parentID)
}

func (h *ChatHandler) send(c echo.Context, parentID uint, senderRole string, senderID uint) error {
	var req chatSendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "EMPTY_MESSAGE"})
	}
	msg := models.ChatMessage{
		ParentID:   parentID,
		SenderRole: senderRole,
		SenderID:   senderID,
		Body:       body,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

// list returns the conversation oldest first; ?after=<id> fetches only
// newer messages (clients poll with their last seen id).
func (h *ChatHandler) list(c echo.Context, parentID uint) error {
	tx := database.DB.Where("parent_id = ?", parentID)
	if after := atoiOr(strings.TrimSpace(c.QueryParam("after")), 0); after > 0 {
		tx = tx.Where("id > ?", after)
	}
	var rows []models.ChatMessage
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}
