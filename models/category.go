package models

import "time"

// Category is shared reference data maintained by admins. Questions reference
// at most one category; a null reference means "uncategorized".
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
