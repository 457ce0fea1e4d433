package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anishkumar0507/hostelbackend/services"
)

type FeeHandler struct {
	svc *services.FeeService
}

func NewFeeHandler(svc *services.FeeService) *FeeHandler { return &FeeHandler{svc: svc} }

type createFeeReq struct {
	StudentID uint    `json:"student_id"`
	Amount    float64 `json:"amount"`
	Term      string  `json:"term"`
}

type settleReq struct {
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	TransactionRef string  `json:"transaction_ref"`
}

// POST /warden/fees
func (h *FeeHandler) Create(c echo.Context) error {
	uid, _ := getUserID(c)
	var req createFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.StudentID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	fee, err := h.svc.Create(services.WardenID(uid), req.StudentID, req.Amount, req.Term)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, fee)
}

// GET /warden/fees?studentId=&status=
func (h *FeeHandler) List(c echo.Context) error {
	studentID := uint(atoiOr(strings.TrimSpace(c.QueryParam("studentId")), 0))
	if studentID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_STUDENT_ID"})
	}
	rows, err := h.svc.ListForStudent(studentID, c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// DELETE /warden/fees/:id (Pending rows only)
func (h *FeeHandler) Delete(c echo.Context) error {
	uid, _ := getUserID(c)
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if err := h.svc.Delete(services.WardenID(uid), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// POST /warden/fees/:id/mark-paid
func (h *FeeHandler) MarkPaid(c echo.Context) error {
	uid, _ := getUserID(c)
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var body struct {
		ReceiptNo string `json:"receipt_no"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	fee, err := h.svc.MarkPaidManually(services.WardenID(uid), id, body.ReceiptNo)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, fee)
}

// GET /student/fees
func (h *FeeHandler) ListMine(c echo.Context) error {
	uid, _ := getUserID(c)
	rows, err := h.svc.ListForStudent(uid, c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /student/fees/due
func (h *FeeHandler) MyDue(c echo.Context) error {
	uid, _ := getUserID(c)
	due, err := h.svc.ComputeDue(uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"due": due})
}

// POST /student/fees/settle
func (h *FeeHandler) SettleMine(c echo.Context) error {
	uid, _ := getUserID(c)
	var req settleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	res, err := h.svc.SettleByStudent(services.StudentID(uid), req.Amount, req.Method, req.TransactionRef)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GET /parent/children/:id/fees
func (h *FeeHandler) ListForChild(c echo.Context) error {
	uid, _ := getUserID(c)
	childID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if !parentHasChild(uid, childID) {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	rows, err := h.svc.ListForStudent(childID, c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /parent/children/:id/fees/settle
func (h *FeeHandler) SettleForChild(c echo.Context) error {
	uid, _ := getUserID(c)
	childID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var req settleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	res, err := h.svc.SettleByParent(services.ParentID(uid), childID, req.Amount, req.Method, req.TransactionRef)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GET /warden/payments?studentId=
func (h *FeeHandler) ListPayments(c echo.Context) error {
	studentID := uint(atoiOr(strings.TrimSpace(c.QueryParam("studentId")), 0))
	if studentID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_STUDENT_ID"})
	}
	rows, err := h.svc.ListPayments(studentID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
