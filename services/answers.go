package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
)

// AnswerService owns answers and keeps the best-answer pointer consistent
// when answers disappear.
type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// CreateAnswer posts an answer to a published question. Answering your own
// question is allowed. Drafts and deleted questions read as not found.
func (s *AnswerService) CreateAnswer(userID, questionID uint, content string) (*models.Answer, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, validationf("content is required")
	}

	answer := &models.Answer{QuestionID: questionID, UserID: userID, Content: content}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("question not found")
			}
			return err
		}
		if q.IsDraft && q.UserID != userID {
			return notFoundf("question not found")
		}
		if q.IsDraft {
			return validationf("drafts cannot be answered")
		}
		return tx.Create(answer).Error
	})
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(answer, answer.ID).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

// UpdateAnswer edits an answer's content. Author only.
func (s *AnswerService) UpdateAnswer(userID, answerID uint, content string) (*models.Answer, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, validationf("content is required")
	}

	var answer models.Answer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("answer not found")
		}
		return nil, err
	}
	if answer.UserID != userID {
		return nil, forbiddenf("only the author may edit an answer")
	}
	if err := s.db.Model(&answer).Update("content", content).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&answer, answer.ID).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// DeleteAnswer soft-deletes an answer. When the answer is the question's
// current best answer, the pointer is cleared in the same transaction so the
// question never references a deleted row.
func (s *AnswerService) DeleteAnswer(userID, answerID uint) error {
	if userID == 0 {
		return ErrAuthenticationRequired
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("answer not found")
			}
			return err
		}
		if answer.UserID != userID {
			return forbiddenf("only the author may delete an answer")
		}
		err := tx.Model(&models.Question{}).
			Where("id = ? AND best_answer_id = ?", answer.QuestionID, answer.ID).
			Update("best_answer_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
}
