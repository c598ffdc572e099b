package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
)

// BestAnswerService is the single writer of the best-answer column.
type BestAnswerService struct {
	db *gorm.DB
}

func NewBestAnswerService(db *gorm.DB) *BestAnswerService {
	return &BestAnswerService{db: db}
}

// Set marks an answer as the question's best answer. Only the question's
// author may do this, the answer must belong to the question, and the slot
// must be empty. The guarded UPDATE keeps two concurrent picks from both
// winning: whoever loses the WHERE clause gets a validation error.
func (s *BestAnswerService) Set(userID, questionID, answerID uint) error {
	if userID == 0 {
		return ErrAuthenticationRequired
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("question not found")
			}
			return err
		}
		if q.UserID != userID {
			return forbiddenf("only the question author may pick a best answer")
		}

		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("answer not found")
			}
			return err
		}
		if answer.QuestionID != questionID {
			return validationf("answer does not belong to this question")
		}

		res := tx.Model(&models.Question{}).
			Where("id = ? AND best_answer_id IS NULL", questionID).
			Update("best_answer_id", answerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return validationf("a best answer is already set")
		}
		return nil
	})
}

// Clear removes the best-answer mark. Allowed for the question's author and
// for the author of the currently marked answer.
func (s *BestAnswerService) Clear(userID, questionID uint) error {
	if userID == 0 {
		return ErrAuthenticationRequired
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("question not found")
			}
			return err
		}
		if q.BestAnswerID == nil {
			return validationf("no best answer is set")
		}

		allowed := q.UserID == userID
		if !allowed {
			var answer models.Answer
			if err := tx.First(&answer, *q.BestAnswerID).Error; err == nil {
				allowed = answer.UserID == userID
			}
		}
		if !allowed {
			return forbiddenf("not allowed to clear the best answer")
		}

		return tx.Model(&q).Update("best_answer_id", nil).Error
	})
}
