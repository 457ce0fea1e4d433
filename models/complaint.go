package models

import "time"

const (
	ComplaintOpen     = "Open"
	ComplaintResolved = "Resolved"
)

type Complaint struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   uint       `json:"student_id" gorm:"index;not null"`
	Subject     string     `json:"subject" gorm:"size:120;not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Status      string     `json:"status" gorm:"size:10;not null;default:'Open';index"`
	Resolution  string     `json:"resolution" gorm:"type:text"`
	ResolvedBy  *uint      `json:"resolved_by"` // warden user id
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
