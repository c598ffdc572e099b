package services

import (
	"strings"

	"gorm.io/gorm"
)

// QuestionFilter narrows a question listing. All fields are optional and
// combine with AND; an empty filter matches every published question.
type QuestionFilter struct {
	// Keyword holds whitespace-separated search terms. A question matches
	// when ANY term appears in its title or description, case-insensitive.
	Keyword string
	// CategoryID restricts to a single category by exact id.
	CategoryID *uint
	// TagName restricts to questions carrying the tag, compared exactly.
	TagName string
}

// Apply adds the filter's conditions to a question query. The query is
// expected to already exclude drafts and soft-deleted rows.
func (f QuestionFilter) Apply(q *gorm.DB) *gorm.DB {
	if terms := splitTerms(f.Keyword); len(terms) > 0 {
		conds := make([]string, 0, len(terms))
		args := make([]interface{}, 0, len(terms)*2)
		for _, term := range terms {
			pattern := "%" + strings.ToLower(term) + "%"
			conds = append(conds, "(LOWER(questions.title) LIKE ? OR LOWER(questions.description) LIKE ?)")
			args = append(args, pattern, pattern)
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	if f.CategoryID != nil {
		q = q.Where("questions.category_id = ?", *f.CategoryID)
	}
	if f.TagName != "" {
		q = q.Where("questions.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).
				Table("question_tags").
				Select("question_tags.question_id").
				Joins("JOIN tags ON tags.id = question_tags.tag_id").
				Where("tags.name = ?", f.TagName))
	}
	return q
}

func splitTerms(keyword string) []string {
	fields := strings.Fields(keyword)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}
