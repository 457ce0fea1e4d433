package models

import "time"

const PaymentCompleted = "Completed"

// Payment is the append-only settlement ledger. One row summarizes one
// bulk settlement; the fee rows remain the source of truth for paid
// state, this is a best-effort side record.
type Payment struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	StudentID      uint      `json:"student_id" gorm:"index;not null"`
	PayerRole      string    `json:"payer_role" gorm:"size:10;not null"` // student | parent | warden
	PayerID        uint      `json:"payer_id" gorm:"not null"`
	Amount         float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method         string    `json:"method" gorm:"size:20;not null"` // UPI | cash | card
	Status         string    `json:"status" gorm:"size:20;not null;default:'Completed'"`
	TransactionRef string    `json:"transaction_ref" gorm:"size:60;uniqueIndex;not null"`
	CreatedAt      time.Time `json:"created_at"`
}
