package models

import "time"

// Role values carried in JWT claims and stamped on audit records.
const (
	RoleAdmin   = "admin"
	RoleWarden  = "warden"
	RoleParent  = "parent"
	RoleStudent = "student"
)

// User is a staff account (warden/admin). Students and parents carry
// their own credentials in their own tables.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:60;not null"`
	Password  string    `json:"-" gorm:"not null"`            // bcrypt hash
	Role      string    `json:"role" gorm:"size:20;not null"` // "warden" | "admin"
	Name      string    `json:"name" gorm:"size:120"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
