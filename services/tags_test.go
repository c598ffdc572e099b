package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmbbs/tmbbs/models"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain", "go,gin,gorm", []string{"go", "gin", "gorm"}},
		{"whitespace and empties", " go , ,gin,,  gorm ", []string{"go", "gin", "gorm"}},
		{"duplicates keep first", "go,gin,go,gin", []string{"go", "gin"}},
		{"case sensitive", "Go,go", []string{"Go", "go"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTags(tc.raw))
		})
	}
}

func TestAttachTagsCreatesAndLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)
	user := seedUser(t, db, "alice")
	q := seedQuestion(t, db, user.ID, "first", nil)

	require.NoError(t, svc.AttachTags(db, q.ID, []string{"go", "gin"}))

	tags, err := svc.TagsForQuestions([]uint{q.ID})
	require.NoError(t, err)
	require.Len(t, tags[q.ID], 2)
	assert.Equal(t, "go", tags[q.ID][0].Name)
	assert.Equal(t, "gin", tags[q.ID][1].Name)
}

func TestAttachTagsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)
	user := seedUser(t, db, "alice")
	q := seedQuestion(t, db, user.ID, "first", nil)

	require.NoError(t, svc.AttachTags(db, q.ID, []string{"go"}))
	require.NoError(t, svc.AttachTags(db, q.ID, []string{"go"}))

	var links int64
	require.NoError(t, db.Model(&models.QuestionTag{}).Where("question_id = ?", q.ID).Count(&links).Error)
	assert.EqualValues(t, 1, links)

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "go").Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)
}

func TestAttachTagsEnforcesCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)
	user := seedUser(t, db, "alice")
	q := seedQuestion(t, db, user.ID, "first", nil)

	err := svc.AttachTags(db, q.ID, []string{"a", "b", "c", "d", "e", "f"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSyncTagsReplacesLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)
	user := seedUser(t, db, "alice")
	q := seedQuestion(t, db, user.ID, "first", nil)

	require.NoError(t, svc.AttachTags(db, q.ID, []string{"go", "gin"}))
	require.NoError(t, svc.SyncTags(db, q.ID, []string{"gorm"}))

	tags, err := svc.TagsForQuestions([]uint{q.ID})
	require.NoError(t, err)
	require.Len(t, tags[q.ID], 1)
	assert.Equal(t, "gorm", tags[q.ID][0].Name)

	// Dropped tags stay in the vocabulary.
	var vocab int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&vocab).Error)
	assert.EqualValues(t, 3, vocab)
}

func TestTopTagsCountsPublishedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)
	user := seedUser(t, db, "alice")

	q1 := seedQuestion(t, db, user.ID, "one", nil)
	q2 := seedQuestion(t, db, user.ID, "two", nil)
	draft := models.Question{UserID: user.ID, Title: "draft", Description: "d", IsDraft: true}
	require.NoError(t, db.Create(&draft).Error)

	require.NoError(t, svc.AttachTags(db, q1.ID, []string{"go", "gin"}))
	require.NoError(t, svc.AttachTags(db, q2.ID, []string{"go"}))
	require.NoError(t, svc.AttachTags(db, draft.ID, []string{"gin"}))

	top, err := svc.TopTags(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "go", top[0].Name)
	assert.EqualValues(t, 2, top[0].QuestionCount)
	assert.Equal(t, "gin", top[1].Name)
	assert.EqualValues(t, 1, top[1].QuestionCount)
}
