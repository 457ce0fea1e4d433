package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/models"
)

// EntryExitService owns the IN/OUT presence toggle. Current presence is
// an explicit column on the student row, flipped with a compare-and-swap
// inside the same transaction that writes the log, so two concurrent
// entries for one student cannot both succeed.
type EntryExitService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewEntryExitService(db *gorm.DB) *EntryExitService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &EntryExitService{db: db, logger: logger}
}

// ResolveStudent accepts a numeric id or a roll number (wardens mark
// entry/exit from either).
func (s *EntryExitService) ResolveStudent(ref string) (*models.Student, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: student reference is required", ErrValidation)
	}
	var student models.Student
	var err error
	if id, convErr := strconv.ParseUint(ref, 10, 32); convErr == nil {
		err = s.db.First(&student, uint(id)).Error
	} else {
		err = s.db.Where("roll_number = ?", ref).First(&student).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// MarkEntry opens a new IN log. Conflict when the student is already
// inside.
func (s *EntryExitService) MarkEntry(studentID uint, method string) (*models.EntryExitLog, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, fmt.Errorf("%w: method is required", ErrValidation)
	}

	var entry models.EntryExitLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Student{}).
			Where("id = ? AND presence = ?", studentID, models.PresenceOut).
			Update("presence", models.PresenceIn)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.presenceGuardFailure(tx, studentID)
		}
		now := time.Now()
		entry = models.EntryExitLog{
			StudentID: studentID,
			InTime:    &now,
			Status:    models.PresenceIn,
			Method:    method,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"student_id": studentID,
		"method":     method,
	}).Info("entry marked")
	return &entry, nil
}

// MarkExit closes the latest open IN log in place: sets out_time, flips
// status, overwrites method with the exit's own. Conflict when the
// student is not currently inside.
func (s *EntryExitService) MarkExit(studentID uint, method string) (*models.EntryExitLog, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, fmt.Errorf("%w: method is required", ErrValidation)
	}

	var open models.EntryExitLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Student{}).
			Where("id = ? AND presence = ?", studentID, models.PresenceIn).
			Update("presence", models.PresenceOut)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.presenceGuardFailure(tx, studentID)
		}
		if err := tx.Where("student_id = ? AND status = ?", studentID, models.PresenceIn).
			Order("created_at DESC, id DESC").First(&open).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Presence said IN but no open log exists (legacy rows).
				return ErrConflict
			}
			return err
		}
		now := time.Now()
		open.OutTime = &now
		open.Status = models.PresenceOut
		open.Method = method
		return tx.Save(&open).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"student_id": studentID,
		"method":     method,
	}).Info("exit marked")
	return &open, nil
}

// presenceGuardFailure: missing student → NotFound, otherwise the
// presence flag already holds the target value → Conflict.
func (s *EntryExitService) presenceGuardFailure(tx *gorm.DB, studentID uint) error {
	var n int64
	if err := tx.Model(&models.Student{}).Where("id = ?", studentID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

type EntryExitFilter struct {
	StudentID uint
	Status    string // IN | OUT | ""
	From      *time.Time
	To        *time.Time
}

// List returns logs newest first, optionally scoped by student, status
// and creation time range.
func (s *EntryExitService) List(f EntryExitFilter) ([]models.EntryExitLog, error) {
	tx := s.db.Model(&models.EntryExitLog{})
	if f.StudentID != 0 {
		tx = tx.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("created_at <= ?", *f.To)
	}
	var rows []models.EntryExitLog
	if err := tx.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
