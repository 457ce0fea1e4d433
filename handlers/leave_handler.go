package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anishkumar0507/hostelbackend/services"
)

type LeaveHandler struct {
	svc *services.LeaveService
}

func NewLeaveHandler(svc *services.LeaveService) *LeaveHandler { return &LeaveHandler{svc: svc} }

type decideReq struct {
	RejectReason string `json:"reject_reason"`
}

// POST /student/leaves
func (h *LeaveHandler) Submit(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
	}
	var in services.SubmitLeaveInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req, err := h.svc.Submit(services.StudentID(uid), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, req)
}

// POST /student/leaves/:id/cancel
func (h *LeaveHandler) Cancel(c echo.Context) error {
	uid, _ := getUserID(c)
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	req, err := h.svc.Cancel(services.StudentID(uid), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// GET /student/leaves?status=
func (h *LeaveHandler) ListMine(c echo.Context) error {
	uid, _ := getUserID(c)
	rows, err := h.svc.ListForStudent(services.StudentID(uid), c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /parent/leaves?status=
func (h *LeaveHandler) ListForChildren(c echo.Context) error {
	uid, _ := getUserID(c)
	rows, err := h.svc.ListForParent(services.ParentID(uid), c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /parent/leaves/:id/approve
func (h *LeaveHandler) ParentApprove(c echo.Context) error {
	return h.parentDecide(c, true)
}

// POST /parent/leaves/:id/reject
func (h *LeaveHandler) ParentReject(c echo.Context) error {
	return h.parentDecide(c, false)
}

func (h *LeaveHandler) parentDecide(c echo.Context, approve bool) error {
	uid, _ := getUserID(c)
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var body decideReq
	if !approve {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
		}
	}
	req, err := h.svc.ParentDecide(services.ParentID(uid), id, approve, body.RejectReason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// GET /warden/leaves?status=
func (h *LeaveHandler) ListAll(c echo.Context) error {
	rows, err := h.svc.ListAll(c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /warden/leaves/pending-count
func (h *LeaveHandler) PendingCount(c echo.Context) error {
	n, err := h.svc.PendingWardenCount()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"count": n})
}

// GET /warden/leaves/:id (also mounted for student/parent; the service
// returns the row, role scoping below)
func (h *LeaveHandler) Get(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	req, err := h.svc.Get(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// POST /warden/leaves/:id/approve
func (h *LeaveHandler) WardenApprove(c echo.Context) error {
	return h.wardenDecide(c, true)
}

// POST /warden/leaves/:id/reject
func (h *LeaveHandler) WardenReject(c echo.Context) error {
	return h.wardenDecide(c, false)
}

func (h *LeaveHandler) wardenDecide(c echo.Context, approve bool) error {
	uid, _ := getUserID(c)
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var body decideReq
	if !approve {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
		}
	}
	req, err := h.svc.WardenDecide(services.WardenID(uid), id, approve, body.RejectReason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}
