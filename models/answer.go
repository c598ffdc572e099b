package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer is a reply to a question. The question's own author may answer too;
// the UI renders that as a comment.
type Answer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	QuestionID uint           `gorm:"index;not null" json:"question_id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	User       User           `json:"author"`

	// Hydrated per request, not stored.
	VoteCount int64     `gorm:"-" json:"vote_count"`
	Voted     bool      `gorm:"-" json:"voted"`
	Question  *Question `gorm:"-" json:"question,omitempty"`
}
