package models

import "time"

// Presence of a student inside the hostel, kept directly on the row so
// entry/exit can flip it with a single conditional update.
const (
	PresenceIn  = "IN"
	PresenceOut = "OUT"
)

type Student struct {
	ID         uint      `gorm:"primaryKey"                   json:"id"`
	RollNumber string    `gorm:"size:20;uniqueIndex;not null" json:"roll_number"`
	Name       string    `gorm:"size:100;not null"            json:"name"`
	Email      string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null"                     json:"-"` // bcrypt hash
	Phone      string    `gorm:"size:15"                      json:"phone"`
	Room       string    `gorm:"size:10;not null"             json:"room"`
	Course     string    `gorm:"size:60"                      json:"course"`
	Year       int       `gorm:"default:1"                    json:"year"`
	ParentID   uint      `gorm:"index"                        json:"parent_id"` // 0 until a parent links
	Presence   string    `gorm:"size:3;not null;default:'OUT'" json:"presence"` // IN | OUT
	Status     string    `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
