package models

import "time"

// User represents an account. Email is the login identifier.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed
	// Flags are always written explicitly; a gorm default would swallow false.
	IsActive    bool `gorm:"not null" json:"is_active"`
	IsStaff     bool `gorm:"not null" json:"is_staff"`
	IsSuperuser bool `gorm:"not null" json:"is_superuser"`
}

// Token is the opaque API key of a user. One per user.
type Token struct {
	Key       string    `gorm:"primaryKey;size:40" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
