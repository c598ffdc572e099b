package models

import "time"

// VoteUpvote is the only vote type currently supported.
const VoteUpvote = "upvote"

// Vote records a single user's upvote on a single answer. The unique index on
// (answer_id, user_id) is the enforcement mechanism for the at-most-one-vote
// invariant: a concurrent duplicate insert fails instead of duplicating.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"not null;uniqueIndex:idx_vote_answer_user" json:"answer_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_answer_user" json:"user_id"`
	Type      string    `gorm:"size:16;not null;default:'upvote'" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
