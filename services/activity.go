package services

import (
	"sync"

	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
	"github.com/tmbbs/tmbbs/utils"
)

const activitySectionLimit = 10

// UserActivity aggregates one user's recent footprint on the board.
type UserActivity struct {
	Questions    []models.Question `json:"questions"`
	Answers      []models.Answer   `json:"answers"`
	VotedAnswers []models.Answer   `json:"voted_answers"`
	Stats        ActivityStats     `json:"stats"`
}

// ActivityStats carries the headline numbers for a profile page.
type ActivityStats struct {
	QuestionCount   int64 `json:"question_count"`
	AnswerCount     int64 `json:"answer_count"`
	VoteCount       int64 `json:"vote_count"`
	BestAnswerCount int64 `json:"best_answer_count"`
}

// ActivityService assembles profile pages.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// ForUser gathers the user's recent questions, answers and voted answers plus
// counters. The four reads are independent, so they fan out concurrently and
// the first error wins. Drafts are included only when the profile owner is
// looking at their own page.
func (s *ActivityService) ForUser(userID uint, includeDrafts bool) (*UserActivity, error) {
	var exists int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, notFoundf("user not found")
	}

	activity := &UserActivity{
		Questions:    []models.Question{},
		Answers:      []models.Answer{},
		VotedAnswers: []models.Answer{},
	}
	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		q := s.db.Preload("User").Preload("Category").
			Where("user_id = ?", userID)
		if !includeDrafts {
			q = q.Where("is_draft = ?", false)
		}
		errs[0] = q.Order("created_at DESC, id DESC").
			Limit(activitySectionLimit).
			Find(&activity.Questions).Error
	}()
	go func() {
		defer wg.Done()
		errs[1] = s.db.Preload("User").
			Where("user_id = ?", userID).
			Order("created_at DESC, id DESC").
			Limit(activitySectionLimit).
			Find(&activity.Answers).Error
	}()
	go func() {
		defer wg.Done()
		errs[2] = s.db.Preload("User").
			Joins("JOIN votes ON votes.answer_id = answers.id AND votes.user_id = ?", userID).
			Order("votes.created_at DESC, votes.id DESC").
			Limit(activitySectionLimit).
			Find(&activity.VotedAnswers).Error
	}()
	go func() {
		defer wg.Done()
		errs[3] = s.loadStats(userID, includeDrafts, &activity.Stats)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if err := s.attachParentQuestions(activity.Answers); err != nil {
		return nil, err
	}
	if err := s.attachParentQuestions(activity.VotedAnswers); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *ActivityService) loadStats(userID uint, includeDrafts bool, out *ActivityStats) error {
	q := s.db.Model(&models.Question{}).Where("user_id = ?", userID)
	if !includeDrafts {
		q = q.Where("is_draft = ?", false)
	}
	if err := q.Count(&out.QuestionCount).Error; err != nil {
		return err
	}
	if err := s.db.Model(&models.Answer{}).Where("user_id = ?", userID).Count(&out.AnswerCount).Error; err != nil {
		return err
	}
	if err := s.db.Model(&models.Vote{}).Where("user_id = ?", userID).Count(&out.VoteCount).Error; err != nil {
		return err
	}
	return s.db.Model(&models.Question{}).
		Joins("JOIN answers ON answers.id = questions.best_answer_id").
		Where("answers.user_id = ?", userID).
		Count(&out.BestAnswerCount).Error
}

// attachParentQuestions batch-loads the questions the listed answers belong
// to, skipping any whose question has since been deleted.
func (s *ActivityService) attachParentQuestions(answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	var questions []models.Question
	if err := s.db.Where("id IN ?", utils.UniqueUint(ids)).Find(&questions).Error; err != nil {
		return err
	}
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	for i := range answers {
		answers[i].Question = byID[answers[i].QuestionID]
	}
	return nil
}
