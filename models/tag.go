package models

import "time"

// Tag is created implicitly the first time a question uses its name.
// Names compare case-sensitive, exactly as typed.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionTag links questions and tags many-to-many. The pair is unique so
// attaching an already-attached tag is a no-op instead of a duplicate row.
type QuestionTag struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_tag" json:"question_id"`
	TagID      uint      `gorm:"not null;uniqueIndex:idx_question_tag" json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}
