package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/models"
)

// FeeService owns the fee ledger: computing the outstanding balance and
// settling the whole of it against one payment. Partial settlement is
// deliberately not offered: a partial amount would be ambiguous about
// which fee row it applies to.
type FeeService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewFeeService(db *gorm.DB) *FeeService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &FeeService{db: db, logger: logger}
}

// paise compares money values on the smallest currency unit, so a sum
// of float64 amounts cannot drift past an equality check.
func paise(v float64) int64 { return int64(math.Round(v * 100)) }

type SettlementResult struct {
	ReceiptNo string       `json:"receipt_no,omitempty"`
	Settled   []models.Fee `json:"settled"`
	Fees      []models.Fee `json:"fees"` // full ledger for the student after settlement
}

// Create adds one Pending fee line item (warden only).
func (s *FeeService) Create(warden WardenID, studentID uint, amount float64, term string) (*models.Fee, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: term is required", ErrValidation)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: amount must be a non-negative number", ErrValidation)
	}
	var n int64
	if err := s.db.Model(&models.Student{}).Where("id = ?", studentID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	fee := &models.Fee{
		StudentID: studentID,
		Amount:    amount,
		Term:      term,
		Status:    models.FeePending,
	}
	if err := s.db.Create(fee).Error; err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"fee_id":     fee.ID,
		"student_id": studentID,
		"warden_id":  uint(warden),
		"amount":     amount,
	}).Info("fee created")
	return fee, nil
}

// ComputeDue sums the Pending amounts for a student. Zero when none.
func (s *FeeService) ComputeDue(studentID uint) (float64, error) {
	var due float64
	err := s.db.Model(&models.Fee{}).
		Where("student_id = ? AND status = ?", studentID, models.FeePending).
		Select("COALESCE(SUM(amount), 0)").Scan(&due).Error
	return due, err
}

// SettleByStudent settles the student's own outstanding balance.
func (s *FeeService) SettleByStudent(student StudentID, amount float64, method, txnRef string) (*SettlementResult, error) {
	return s.settle(models.RoleStudent, uint(student), uint(student), amount, method, txnRef)
}

// SettleByParent settles a linked child's balance. A parent cannot pay
// for somebody else's child.
func (s *FeeService) SettleByParent(parent ParentID, studentID uint, amount float64, method, txnRef string) (*SettlementResult, error) {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if student.ParentID != uint(parent) {
		return nil, ErrForbidden
	}
	return s.settle(models.RoleParent, uint(parent), studentID, amount, method, txnRef)
}

// settle marks every Pending fee of the student Paid under one shared
// receipt, all inside one transaction so a partial batch cannot be
// observed. Amount rule: negative is a validation error; anything not
// equal to the balance computed in the same transaction is a mismatch;
// a zero balance settles as an empty no-op.
func (s *FeeService) settle(payerRole string, payerID, studentID uint, amount float64, method, txnRef string) (*SettlementResult, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, fmt.Errorf("%w: method is required", ErrValidation)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}

	var (
		receiptNo string
		settled   []models.Fee
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pending []models.Fee
		if err := tx.Where("student_id = ? AND status = ?", studentID, models.FeePending).
			Order("created_at ASC, id ASC").Find(&pending).Error; err != nil {
			return err
		}

		var due float64
		for _, f := range pending {
			due += f.Amount
		}
		if paise(amount) != paise(due) {
			return ErrAmountMismatch
		}
		if len(pending) == 0 {
			// Already fully paid; settling nothing is a success.
			return nil
		}

		receiptNo = NewReceiptNo()
		now := time.Now()
		for i := range pending {
			f := &pending[i]
			res := tx.Model(&models.Fee{}).
				Where("id = ? AND status = ?", f.ID, models.FeePending).
				Updates(map[string]any{
					"status":       models.FeePaid,
					"paid_at":      &now,
					"receipt_no":   receiptNo,
					"paid_by_role": payerRole,
					"paid_by_id":   payerID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Another settlement raced us on this row; abort the
				// whole batch.
				return ErrConflict
			}
			f.Status = models.FeePaid
			f.PaidAt = &now
			f.ReceiptNo = receiptNo
			f.PaidByRole = payerRole
			f.PaidByID = payerID
		}
		settled = pending
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(settled) > 0 {
		// Best-effort side record: the fee rows are the source of truth
		// for paid state, so a failed ledger write is logged, not
		// escalated.
		ref := strings.TrimSpace(txnRef)
		if ref == "" {
			ref = NewTransactionRef()
		}
		pay := models.Payment{
			StudentID:      studentID,
			PayerRole:      payerRole,
			PayerID:        payerID,
			Amount:         amount,
			Method:         method,
			Status:         models.PaymentCompleted,
			TransactionRef: ref,
		}
		if err := s.db.Create(&pay).Error; err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"student_id": studentID,
				"receipt_no": receiptNo,
			}).Error("payment ledger write failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"student_id": studentID,
				"receipt_no": receiptNo,
				"amount":     amount,
			}).Info("settlement completed")
		}
	}

	all, err := s.ListForStudent(studentID, "")
	if err != nil {
		return nil, err
	}
	return &SettlementResult{ReceiptNo: receiptNo, Settled: settled, Fees: all}, nil
}

// MarkPaidManually is the warden override: one fee set Paid directly,
// bypassing amount matching and the Payment ledger.
func (s *FeeService) MarkPaidManually(warden WardenID, feeID uint, receiptNo string) (*models.Fee, error) {
	receiptNo = strings.TrimSpace(receiptNo)
	if receiptNo == "" {
		receiptNo = NewReceiptNo()
	}
	now := time.Now()
	res := s.db.Model(&models.Fee{}).
		Where("id = ? AND status = ?", feeID, models.FeePending).
		Updates(map[string]any{
			"status":       models.FeePaid,
			"paid_at":      &now,
			"receipt_no":   receiptNo,
			"paid_by_role": models.RoleWarden,
			"paid_by_id":   uint(warden),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var fee models.Fee
		if err := s.db.First(&fee, feeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, ErrConflict // already paid
	}
	var fee models.Fee
	if err := s.db.First(&fee, feeID).Error; err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"fee_id":    feeID,
		"warden_id": uint(warden),
	}).Info("fee marked paid manually")
	return &fee, nil
}

// Delete removes a fee while it is still Pending. Deleting a Paid fee
// would orphan the Payment ledger's evidence, so it is refused.
func (s *FeeService) Delete(warden WardenID, feeID uint) error {
	res := s.db.Where("id = ? AND status = ?", feeID, models.FeePending).
		Delete(&models.Fee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var fee models.Fee
		if err := s.db.First(&fee, feeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return ErrConflict // Paid rows stay
	}
	s.logger.WithFields(logrus.Fields{
		"fee_id":    feeID,
		"warden_id": uint(warden),
	}).Info("pending fee deleted")
	return nil
}

// ListForStudent returns the student's ledger, oldest first (receipt
// assignment and reporting order).
func (s *FeeService) ListForStudent(studentID uint, status string) ([]models.Fee, error) {
	tx := s.db.Where("student_id = ?", studentID)
	if status = strings.TrimSpace(status); status != "" {
		tx = tx.Where("status = ?", status)
	}
	var rows []models.Fee
	if err := tx.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPayments returns the settlement ledger for a student, newest
// first.
func (s *FeeService) ListPayments(studentID uint) ([]models.Payment, error) {
	var rows []models.Payment
	if err := s.db.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
