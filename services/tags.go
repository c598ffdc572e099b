package services

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tmbbs/tmbbs/models"
)

// MaxTagsPerQuestion caps how many distinct tags a question may carry.
const MaxTagsPerQuestion = 5

// NormalizeTags splits a raw comma-separated tag string into a distinct,
// order-preserving list. Whitespace around names is trimmed, empty segments
// dropped, and duplicates keep their first occurrence. Comparison is
// case-sensitive: "Go" and "go" are different tags.
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// TagService manages the tag vocabulary and question-tag links.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// AttachTags creates any missing tags and links them to the question.
// Re-attaching an existing link is a no-op. Call inside the transaction that
// writes the question so a failed link rolls the whole write back.
func (s *TagService) AttachTags(tx *gorm.DB, questionID uint, names []string) error {
	if len(names) > MaxTagsPerQuestion {
		return validationf("a question may carry at most 5 tags")
	}
	for _, name := range names {
		tag := models.Tag{Name: name}
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		link := models.QuestionTag{QuestionID: questionID, TagID: tag.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// SyncTags replaces the question's tag set with names. Tags that drop out of
// use stay in the vocabulary; only the links change.
func (s *TagService) SyncTags(tx *gorm.DB, questionID uint, names []string) error {
	if len(names) > MaxTagsPerQuestion {
		return validationf("a question may carry at most 5 tags")
	}
	if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionTag{}).Error; err != nil {
		return err
	}
	return s.AttachTags(tx, questionID, names)
}

// TagsForQuestions batch-loads tags for a set of questions in link order.
func (s *TagService) TagsForQuestions(questionIDs []uint) (map[uint][]models.Tag, error) {
	result := make(map[uint][]models.Tag, len(questionIDs))
	if len(questionIDs) == 0 {
		return result, nil
	}

	type taggedRow struct {
		QuestionID uint
		models.Tag
	}
	var rows []taggedRow
	err := s.db.Table("question_tags").
		Select("question_tags.question_id, tags.id, tags.name, tags.created_at").
		Joins("JOIN tags ON tags.id = question_tags.tag_id").
		Where("question_tags.question_id IN ?", questionIDs).
		Order("question_tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.QuestionID] = append(result[r.QuestionID], r.Tag)
	}
	return result, nil
}

// TagCount pairs a tag with how many live questions use it.
type TagCount struct {
	models.Tag
	QuestionCount int64 `json:"question_count"`
}

// TopTags returns the most used tags, counting only published questions that
// are not soft-deleted.
func (s *TagService) TopTags(limit int) ([]TagCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TagCount
	err := s.db.Table("tags").
		Select("tags.id, tags.name, tags.created_at, COUNT(questions.id) AS question_count").
		Joins("JOIN question_tags ON question_tags.tag_id = tags.id").
		Joins("JOIN questions ON questions.id = question_tags.question_id AND questions.deleted_at IS NULL AND questions.is_draft = ?", false).
		Group("tags.id, tags.name, tags.created_at").
		Order("question_count DESC, tags.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
