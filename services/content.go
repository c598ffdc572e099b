package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
)

// Listing sort orders.
const (
	SortNewest   = "newest"
	SortPopular  = "popular"
	SortResolved = "resolved"
)

// QuestionInput carries the fields a user submits when creating a question.
// Tags is the raw comma-separated string as typed.
type QuestionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"category_id"`
	Tags        string `json:"tags"`
	Draft       bool   `json:"draft"`
}

// QuestionUpdate carries a partial edit; nil fields stay untouched.
// Setting Draft to false publishes a draft, which requires a category either
// already on the question or supplied in the same request.
type QuestionUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	Tags        *string `json:"tags"`
	Draft       *bool   `json:"draft"`
}

// ContentService owns questions and their listings.
type ContentService struct {
	db   *gorm.DB
	tags *TagService
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db, tags: NewTagService(db)}
}

// CreateQuestion validates and stores a new question with its tags in one
// transaction. Drafts may omit the category; published questions may not.
func (s *ContentService) CreateQuestion(userID uint, in QuestionInput) (*models.Question, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, validationf("description is required")
	}
	if !in.Draft && in.CategoryID == nil {
		return nil, validationf("a published question needs a category")
	}
	names := NormalizeTags(in.Tags)
	if len(names) > MaxTagsPerQuestion {
		return nil, validationf("a question may carry at most 5 tags")
	}

	question := &models.Question{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		IsDraft:     in.Draft,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.CategoryID != nil {
			if err := verifyCategory(tx, *in.CategoryID); err != nil {
				return err
			}
		}
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return s.tags.AttachTags(tx, question.ID, names)
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestion(question.ID, userID)
}

// UpdateQuestion applies a partial edit by the question's owner. The best
// answer pointer is never writable through here.
func (s *ContentService) UpdateQuestion(userID, questionID uint, upd QuestionUpdate) (*models.Question, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("question not found")
			}
			return err
		}
		if q.UserID != userID {
			return forbiddenf("only the author may edit a question")
		}

		changes := map[string]interface{}{}
		if upd.Title != nil {
			title := strings.TrimSpace(*upd.Title)
			if title == "" {
				return validationf("title is required")
			}
			changes["title"] = title
		}
		if upd.Description != nil {
			if strings.TrimSpace(*upd.Description) == "" {
				return validationf("description is required")
			}
			changes["description"] = *upd.Description
		}
		if upd.CategoryID != nil {
			if err := verifyCategory(tx, *upd.CategoryID); err != nil {
				return err
			}
			changes["category_id"] = *upd.CategoryID
		}
		if upd.Draft != nil {
			if !*upd.Draft {
				// Publishing requires a category from this edit or an earlier one.
				if upd.CategoryID == nil && q.CategoryID == nil {
					return validationf("a published question needs a category")
				}
			}
			changes["is_draft"] = *upd.Draft
		}
		if len(changes) > 0 {
			if err := tx.Model(&q).Updates(changes).Error; err != nil {
				return err
			}
		}
		if upd.Tags != nil {
			names := NormalizeTags(*upd.Tags)
			if err := s.tags.SyncTags(tx, q.ID, names); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestion(questionID, userID)
}

// DeleteQuestion soft-deletes a question and its answers. The rows stay in
// the database but vanish from every listing, search and lookup.
func (s *ContentService) DeleteQuestion(userID, questionID uint) error {
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
			return forbiddenf("only the author may delete a question")
		}
		if err := tx.Where("question_id = ?", q.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&q).Error
	})
}

// GetQuestion loads one question with author, category, tags, answers and
// vote state hydrated. Drafts are only visible to their owner; everyone else
// gets a not-found so drafts cannot be probed.
func (s *ContentService) GetQuestion(questionID, viewerID uint) (*models.Question, error) {
	var q models.Question
	err := s.db.Preload("User").Preload("Category").First(&q, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("question not found")
		}
		return nil, err
	}
	if q.IsDraft && q.UserID != viewerID {
		return nil, notFoundf("question not found")
	}

	tagsByQ, err := s.tags.TagsForQuestions([]uint{q.ID})
	if err != nil {
		return nil, err
	}
	q.Tags = tagsByQ[q.ID]
	if q.Tags == nil {
		q.Tags = []models.Tag{}
	}

	var answers []models.Answer
	err = s.db.Preload("User").
		Where("question_id = ?", q.ID).
		Order("created_at ASC, id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	answerIDs := make([]uint, 0, len(answers))
	for _, a := range answers {
		answerIDs = append(answerIDs, a.ID)
	}
	counts, voted, err := voteState(s.db, answerIDs, viewerID)
	if err != nil {
		return nil, err
	}

	rest := make([]models.Answer, 0, len(answers))
	for i := range answers {
		answers[i].VoteCount = counts[answers[i].ID]
		answers[i].Voted = voted[answers[i].ID]
		if q.BestAnswerID != nil && answers[i].ID == *q.BestAnswerID {
			best := answers[i]
			q.BestAnswer = &best
			continue
		}
		rest = append(rest, answers[i])
	}
	q.Answers = rest
	return &q, nil
}

// ListQuestions returns a page of published questions matching the filter,
// plus the total match count for pagination.
func (s *ContentService) ListQuestions(filter QuestionFilter, sort string, page, pageSize int) ([]models.Question, int64, error) {
	base := filter.Apply(s.db.Model(&models.Question{}).Where("questions.is_draft = ?", false))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Session(&gorm.Session{}).Preload("User").Preload("Category")
	switch sort {
	case SortPopular:
		q = q.
			Joins("LEFT JOIN answers ON answers.question_id = questions.id AND answers.deleted_at IS NULL").
			Joins("LEFT JOIN votes ON votes.answer_id = answers.id").
			Group("questions.id").
			Select("questions.*, COUNT(votes.id) AS vote_total").
			Order("vote_total DESC, questions.created_at DESC, questions.id DESC")
	case SortResolved:
		q = q.Order("CASE WHEN questions.best_answer_id IS NULL THEN 1 ELSE 0 END ASC, questions.created_at DESC, questions.id DESC")
	default:
		q = q.Order("questions.created_at DESC, questions.id DESC")
	}

	var questions []models.Question
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	if err := s.hydrateList(questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// ListDrafts returns the caller's own drafts, newest first.
func (s *ContentService) ListDrafts(userID uint, page, pageSize int) ([]models.Question, int64, error) {
	if userID == 0 {
		return nil, 0, ErrAuthenticationRequired
	}
	base := s.db.Model(&models.Question{}).Where("user_id = ? AND is_draft = ?", userID, true)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var drafts []models.Question
	err := base.Session(&gorm.Session{}).
		Preload("User").Preload("Category").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&drafts).Error
	if err != nil {
		return nil, 0, err
	}
	if err := s.hydrateList(drafts); err != nil {
		return nil, 0, err
	}
	return drafts, total, nil
}

// hydrateList batch-loads tags for a page of questions.
func (s *ContentService) hydrateList(questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	tagsByQ, err := s.tags.TagsForQuestions(ids)
	if err != nil {
		return err
	}
	for i := range questions {
		questions[i].Tags = tagsByQ[questions[i].ID]
		if questions[i].Tags == nil {
			questions[i].Tags = []models.Tag{}
		}
	}
	return nil
}

func verifyCategory(tx *gorm.DB, categoryID uint) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return validationf("category does not exist")
	}
	return nil
}
