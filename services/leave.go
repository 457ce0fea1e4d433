package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/models"
)

// LeaveService owns the three-step approval state machine
// (student submits → parent decides → warden decides) and its
// append-only audit trail. Every transition is a status-guarded
// conditional update: approvals come from independent client sessions
// with no central lock, so the {id, status} filter is the only thing
// preventing a stale decision from clobbering a newer one.
type LeaveService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewLeaveService(db *gorm.DB) *LeaveService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &LeaveService{db: db, logger: logger}
}

type SubmitLeaveInput struct {
	Category    string    `json:"category"`
	Reason      string    `json:"reason"`
	OutTime     time.Time `json:"out_time"`
	InTime      time.Time `json:"in_time"`
	OutTimeText string    `json:"out_time_text"`
	InTimeText  string    `json:"in_time_text"`
}

// Submit creates a request in PendingParent with its first history
// entry.
func (s *LeaveService) Submit(student StudentID, in SubmitLeaveInput) (*models.LeaveRequest, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if in.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if !models.ValidLeaveCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if in.OutTime.IsZero() || in.InTime.IsZero() {
		return nil, fmt.Errorf("%w: out_time and in_time are required", ErrValidation)
	}
	if in.InTime.Before(in.OutTime) {
		return nil, fmt.Errorf("%w: in_time precedes out_time", ErrValidation)
	}

	req := &models.LeaveRequest{
		StudentID:      uint(student),
		Category:       in.Category,
		Reason:         in.Reason,
		OutTime:        in.OutTime,
		InTime:         in.InTime,
		OutTimeText:    strings.TrimSpace(in.OutTimeText),
		InTimeText:     strings.TrimSpace(in.InTimeText),
		Status:         models.LeavePendingParent,
		ParentDecision: models.DecisionPending,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		return tx.Create(&models.LeaveEvent{
			LeaveRequestID: req.ID,
			Status:         models.LeavePendingParent,
			ActorID:        uint(student),
			ActorRole:      models.RoleStudent,
			Reason:         in.Reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"leave_id":   req.ID,
		"student_id": req.StudentID,
		"category":   req.Category,
	}).Info("leave request submitted")
	return req, nil
}

// ParentDecide moves a PendingParent request to ApprovedByParent or
// RejectedByParent. The parent must be linked to the request's student.
// When the status guard does not match because the request already
// moved on (e.g. a duplicate tap from a second session), the caller
// gets Conflict, never a silent no-op.
func (s *LeaveService) ParentDecide(parent ParentID, requestID uint, approve bool, rejectReason string) (*models.LeaveRequest, error) {
	rejectReason = strings.TrimSpace(rejectReason)
	if !approve && rejectReason == "" {
		return nil, fmt.Errorf("%w: reject reason is required", ErrValidation)
	}

	next := models.LeaveApprovedByParent
	decision := models.DecisionApproved
	if !approve {
		next = models.LeaveRejectedByParent
		decision = models.DecisionRejected
	}

	now := time.Now()
	updates := map[string]any{
		"status":            next,
		"parent_decision":   decision,
		"parent_decided_at": &now,
	}
	if !approve {
		updates["reject_reason"] = rejectReason
	}

	var out models.LeaveRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LeaveRequest{}).
			Where("id = ? AND status IN ? AND student_id IN (?)",
				requestID, models.LeaveAllowedFrom(next),
				tx.Model(&models.Student{}).Select("id").Where("parent_id = ?", uint(parent))).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.parentGuardFailure(tx, requestID, parent)
		}
		if err := tx.Create(&models.LeaveEvent{
			LeaveRequestID: requestID,
			Status:         next,
			ActorID:        uint(parent),
			ActorRole:      models.RoleParent,
			Reason:         rejectReason,
		}).Error; err != nil {
			return err
		}
		return tx.Preload("History").First(&out, requestID).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"leave_id":  requestID,
		"parent_id": uint(parent),
		"status":    next,
	}).Info("parent decision recorded")
	return &out, nil
}

// WardenDecide moves an ApprovedByParent request to Approved or
// Rejected, stamping the deciding warden and time. Same guard
// discipline as ParentDecide.
func (s *LeaveService) WardenDecide(warden WardenID, requestID uint, approve bool, rejectReason string) (*models.LeaveRequest, error) {
	rejectReason = strings.TrimSpace(rejectReason)
	if !approve && rejectReason == "" {
		return nil, fmt.Errorf("%w: reject reason is required", ErrValidation)
	}

	next := models.LeaveApproved
	if !approve {
		next = models.LeaveRejected
	}

	now := time.Now()
	wid := uint(warden)
	updates := map[string]any{
		"status":      next,
		"approved_by": &wid,
		"approved_at": &now,
	}
	if !approve {
		updates["reject_reason"] = rejectReason
	}

	var out models.LeaveRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LeaveRequest{}).
			Where("id = ? AND status IN ?", requestID, models.LeaveAllowedFrom(next)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.guardFailure(tx, requestID)
		}
		if err := tx.Create(&models.LeaveEvent{
			LeaveRequestID: requestID,
			Status:         next,
			ActorID:        wid,
			ActorRole:      models.RoleWarden,
			Reason:         rejectReason,
		}).Error; err != nil {
			return err
		}
		return tx.Preload("History").First(&out, requestID).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"leave_id":  requestID,
		"warden_id": wid,
		"status":    next,
	}).Info("warden decision recorded")
	return &out, nil
}

// Cancel lets the owning student withdraw a request that neither party
// has decided yet. Once the request has progressed past initial parent
// review this fails with Conflict.
func (s *LeaveService) Cancel(student StudentID, requestID uint) (*models.LeaveRequest, error) {
	var out models.LeaveRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LeaveRequest{}).
			Where("id = ? AND student_id = ? AND status IN ?",
				requestID, uint(student), models.LeaveAllowedFrom(models.LeaveCancelled)).
			Updates(map[string]any{"status": models.LeaveCancelled})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.studentGuardFailure(tx, requestID, student)
		}
		if err := tx.Create(&models.LeaveEvent{
			LeaveRequestID: requestID,
			Status:         models.LeaveCancelled,
			ActorID:        uint(student),
			ActorRole:      models.RoleStudent,
		}).Error; err != nil {
			return err
		}
		return tx.Preload("History").First(&out, requestID).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithField("leave_id", requestID).Info("leave request cancelled")
	return &out, nil
}

// Get returns one request with its history. Ownership checks are the
// caller's business (the HTTP layer scopes by role).
func (s *LeaveService) Get(requestID uint) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	if err := s.db.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListForStudent returns the student's own requests, newest first.
func (s *LeaveService) ListForStudent(student StudentID, status string) ([]models.LeaveRequest, error) {
	tx := s.db.Where("student_id = ?", uint(student))
	return s.list(tx, status)
}

// ListForParent returns requests of every student linked to the parent.
func (s *LeaveService) ListForParent(parent ParentID, status string) ([]models.LeaveRequest, error) {
	tx := s.db.Where("student_id IN (?)",
		s.db.Model(&models.Student{}).Select("id").Where("parent_id = ?", uint(parent)))
	return s.list(tx, status)
}

// ListAll is the warden-side projection.
func (s *LeaveService) ListAll(status string) ([]models.LeaveRequest, error) {
	return s.list(s.db, status)
}

// PendingWardenCount counts requests waiting on the warden stage.
func (s *LeaveService) PendingWardenCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.LeaveRequest{}).
		Where("status = ?", models.LeaveApprovedByParent).Count(&n).Error
	return n, err
}

func (s *LeaveService) list(tx *gorm.DB, status string) ([]models.LeaveRequest, error) {
	if status = strings.TrimSpace(status); status != "" {
		tx = tx.Where("status = ?", status)
	}
	var rows []models.LeaveRequest
	if err := tx.Model(&models.LeaveRequest{}).
		Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// parentGuardFailure works out why a parent-stage guard did not match:
// missing row → NotFound, someone else's child → Forbidden, otherwise
// the status already moved on → Conflict.
func (s *LeaveService) parentGuardFailure(tx *gorm.DB, requestID uint, parent ParentID) error {
	var req models.LeaveRequest
	if err := tx.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var n int64
	if err := tx.Model(&models.Student{}).
		Where("id = ? AND parent_id = ?", req.StudentID, uint(parent)).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrForbidden
	}
	return ErrConflict
}

func (s *LeaveService) studentGuardFailure(tx *gorm.DB, requestID uint, student StudentID) error {
	var req models.LeaveRequest
	if err := tx.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if req.StudentID != uint(student) {
		return ErrForbidden
	}
	return ErrConflict
}

func (s *LeaveService) guardFailure(tx *gorm.DB, requestID uint) error {
	var req models.LeaveRequest
	if err := tx.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrConflict
}
