package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins manage categories; everyone else is a member.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a board user. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:16;not null;default:'member'" json:"role"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	Provider     string         `gorm:"size:32" json:"provider"`
	ProviderID   string         `gorm:"size:255" json:"provider_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Questions    []Question     `json:"-"`
	Answers      []Answer       `json:"-"`
}

// DisplayName falls back to "Anonymous" when the username was never set.
func (u *User) DisplayName() string {
	if u.Username == "" {
		return "Anonymous"
	}
	return u.Username
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}
