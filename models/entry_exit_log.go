package models

import "time"

// EntryExitLog records one stay inside the hostel. Entry creates an IN
// row; exit closes the latest IN row in place (sets out_time, flips
// status). Rows are never deleted.
type EntryExitLog struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	StudentID uint       `json:"student_id" gorm:"index;not null"`
	InTime    *time.Time `json:"in_time"`
	OutTime   *time.Time `json:"out_time"`
	Status    string     `json:"status" gorm:"size:3;not null"`    // IN | OUT
	Method    string     `json:"method" gorm:"size:20;not null"`   // manual | qr | biometric
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
