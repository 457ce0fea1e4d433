package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anishkumar0507/hostelbackend/services"
)

type EntryExitHandler struct {
	svc *services.EntryExitService
}

func NewEntryExitHandler(svc *services.EntryExitService) *EntryExitHandler {
	return &EntryExitHandler{svc: svc}
}

type markReq struct {
	Method string `json:"method"`
}

func bindMethod(c echo.Context) string {
	var req markReq
	if err := c.Bind(&req); err != nil {
		return ""
	}
	if req.Method == "" {
		return "manual"
	}
	return req.Method
}

// POST /student/entry
func (h *EntryExitHandler) MarkMyEntry(c echo.Context) error {
	uid, _ := getUserID(c)
	log, err := h.svc.MarkEntry(uid, bindMethod(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, log)
}

// POST /student/exit
func (h *EntryExitHandler) MarkMyExit(c echo.Context) error {
	uid, _ := getUserID(c)
	log, err := h.svc.MarkExit(uid, bindMethod(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, log)
}

// GET /student/entry-exit?from=&to=
func (h *EntryExitHandler) ListMine(c echo.Context) error {
	uid, _ := getUserID(c)
	from, to := timeRange(c)
	rows, err := h.svc.List(services.EntryExitFilter{
		StudentID: uid,
		Status:    strings.TrimSpace(c.QueryParam("status")),
		From:      from,
		To:        to,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /warden/entry-exit/:ref/entry; :ref is a student id or a roll
// number
func (h *EntryExitHandler) MarkEntryFor(c echo.Context) error {
	student, err := h.svc.ResolveStudent(c.Param("ref"))
	if err != nil {
		return serviceError(c, err)
	}
	log, err := h.svc.MarkEntry(student.ID, bindMethod(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, log)
}

// POST /warden/entry-exit/:ref/exit
func (h *EntryExitHandler) MarkExitFor(c echo.Context) error {
	student, err := h.svc.ResolveStudent(c.Param("ref"))
	if err != nil {
		return serviceError(c, err)
	}
	log, err := h.svc.MarkExit(student.ID, bindMethod(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, log)
}

// GET /warden/entry-exit?studentId=&status=&from=&to=
func (h *EntryExitHandler) List(c echo.Context) error {
	from, to := timeRange(c)
	rows, err := h.svc.List(services.EntryExitFilter{
		StudentID: uint(atoiOr(strings.TrimSpace(c.QueryParam("studentId")), 0)),
		Status:    strings.TrimSpace(c.QueryParam("status")),
		From:      from,
		To:        to,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /parent/children/:id/entry-exit?from=&to=
func (h *EntryExitHandler) ListForChild(c echo.Context) error {
	uid, _ := getUserID(c)
	childID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if !parentHasChild(uid, childID) {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	from, to := timeRange(c)
	rows, err := h.svc.List(services.EntryExitFilter{StudentID: childID, From: from, To: to})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
