package models

import "time"

// Location keeps the latest shared position per student (one row per
// student, upserted on every share).
type Location struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"uniqueIndex;not null"`
	Latitude   float64   `json:"latitude" gorm:"not null"`
	Longitude  float64   `json:"longitude" gorm:"not null"`
	Accuracy   float64   `json:"accuracy"` // meters, 0 when unknown
	RecordedAt time.Time `json:"recorded_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
