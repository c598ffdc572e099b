package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is the top-level post of the board. Soft-deleted and draft
// questions never show up in public listings or search.
//
// BestAnswerID, when set, must point to an answer of this question; the
// best-answer coordinator is the only writer of that column.
type Question struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	CategoryID   *uint          `gorm:"index" json:"category_id"`
	BestAnswerID *uint          `gorm:"index" json:"best_answer_id"`
	IsDraft      bool           `gorm:"not null;default:false" json:"is_draft"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	User         User           `json:"author"`
	Category     *Category      `json:"category,omitempty"`

	// Hydrated by the content service, not stored.
	Tags       []Tag    `gorm:"-" json:"tags"`
	BestAnswer *Answer  `gorm:"-" json:"best_answer,omitempty"`
	Answers    []Answer `gorm:"-" json:"answers,omitempty"`
}
