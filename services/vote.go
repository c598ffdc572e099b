package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
)

// VoteState is what the frontend needs after a toggle: the caller's own
// state and the fresh total.
type VoteState struct {
	Voted bool  `json:"voted"`
	Count int64 `json:"count"`
}

// VoteService records upvotes on answers.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// Toggle flips the caller's vote on an answer: removes it when present,
// records it otherwise. The unique (answer_id, user_id) index turns a
// concurrent duplicate insert into an error instead of a double vote.
func (s *VoteService) Toggle(userID, answerID uint) (VoteState, error) {
	if userID == 0 {
		return VoteState{}, ErrAuthenticationRequired
	}

	var state VoteState
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("answer not found")
			}
			return err
		}

		res := tx.Where("answer_id = ? AND user_id = ?", answerID, userID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			vote := models.Vote{AnswerID: answerID, UserID: userID, Type: models.VoteUpvote}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return validationf("vote already recorded")
				}
				return err
			}
			state.Voted = true
		}

		return tx.Model(&models.Vote{}).Where("answer_id = ?", answerID).Count(&state.Count).Error
	})
	if err != nil {
		return VoteState{}, err
	}
	return state, nil
}

// State reports the vote count on an answer and whether the viewer voted.
// A zero viewerID means anonymous and always reads as not voted.
func (s *VoteService) State(answerID, viewerID uint) (VoteState, error) {
	var answer models.Answer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoteState{}, notFoundf("answer not found")
		}
		return VoteState{}, err
	}
	counts, voted, err := voteState(s.db, []uint{answerID}, viewerID)
	if err != nil {
		return VoteState{}, err
	}
	return VoteState{Voted: voted[answerID], Count: counts[answerID]}, nil
}

// voteState batch-loads vote totals and the viewer's own votes for a set of
// answers. Shared by the content and activity hydration paths.
func voteState(db *gorm.DB, answerIDs []uint, viewerID uint) (map[uint]int64, map[uint]bool, error) {
	counts := make(map[uint]int64, len(answerIDs))
	voted := make(map[uint]bool, len(answerIDs))
	if len(answerIDs) == 0 {
		return counts, voted, nil
	}

	type countRow struct {
		AnswerID uint
		Total    int64
	}
	var rows []countRow
	err := db.Model(&models.Vote{}).
		Select("answer_id, COUNT(*) AS total").
		Where("answer_id IN ?", answerIDs).
		Group("answer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		counts[r.AnswerID] = r.Total
	}

	if viewerID != 0 {
		var mine []uint
		err := db.Model(&models.Vote{}).
			Where("answer_id IN ? AND user_id = ?", answerIDs, viewerID).
			Pluck("answer_id", &mine).Error
		if err != nil {
			return nil, nil, err
		}
		for _, id := range mine {
			voted[id] = true
		}
	}
	return counts, voted, nil
}
