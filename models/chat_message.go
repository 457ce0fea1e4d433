package models

import "time"

// ChatMessage belongs to the conversation between one parent and the
// warden's office. Messages are fetched by polling; there is no socket
// transport here.
type ChatMessage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ParentID   uint      `json:"parent_id" gorm:"index;not null"`
	SenderRole string    `json:"sender_role" gorm:"size:10;not null"` // parent | warden
	SenderID   uint      `json:"sender_id" gorm:"not null"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}
