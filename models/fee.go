package models

import "time"

const (
	FeePending = "Pending"
	FeePaid    = "Paid"
)

// Fee is one ledger line item per student per billing term. A receipt
// number is shared by every fee settled in the same batch, so the
// column is indexed but not unique.
type Fee struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	StudentID  uint       `json:"student_id" gorm:"index;not null"`
	Amount     float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	Term       string     `json:"term" gorm:"size:40;not null"` // e.g. "2026 Sem 1", "August 2026"
	Status     string     `json:"status" gorm:"size:10;not null;default:'Pending';index"`
	ReceiptNo  string     `json:"receipt_no,omitempty" gorm:"size:40;index"`
	PaidAt     *time.Time `json:"paid_at"`
	PaidByRole string     `json:"paid_by_role" gorm:"size:10"`
	PaidByID   uint       `json:"paid_by_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
