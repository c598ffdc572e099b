package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmbbs/tmbbs/models"
)

func TestCreateQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	var verr *ValidationError

	_, err := svc.CreateQuestion(user.ID, QuestionInput{Title: "", Description: "d", CategoryID: uintPtr(cat.ID)})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateQuestion(user.ID, QuestionInput{Title: "t", Description: " ", CategoryID: uintPtr(cat.ID)})
	require.ErrorAs(t, err, &verr)

	// Publishing needs a category; drafts do not.
	_, err = svc.CreateQuestion(user.ID, QuestionInput{Title: "t", Description: "d"})
	require.ErrorAs(t, err, &verr)

	draft, err := svc.CreateQuestion(user.ID, QuestionInput{Title: "t", Description: "d", Draft: true})
	require.NoError(t, err)
	assert.True(t, draft.IsDraft)
	assert.Nil(t, draft.CategoryID)

	_, err = svc.CreateQuestion(0, QuestionInput{Title: "t", Description: "d", CategoryID: uintPtr(cat.ID)})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = svc.CreateQuestion(user.ID, QuestionInput{Title: "t", Description: "d", CategoryID: uintPtr(999)})
	require.ErrorAs(t, err, &verr)
}

func TestCreateQuestionWithTags(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	q, err := svc.CreateQuestion(user.ID, QuestionInput{
		Title:       "  how to test  ",
		Description: "details",
		CategoryID:  uintPtr(cat.ID),
		Tags:        " go , testing ,go",
	})
	require.NoError(t, err)
	assert.Equal(t, "how to test", q.Title)
	require.Len(t, q.Tags, 2)
	assert.Equal(t, "go", q.Tags[0].Name)
	assert.Equal(t, "testing", q.Tags[1].Name)
	require.NotNil(t, q.Category)
	assert.Equal(t, "general", q.Category.Name)
	assert.Equal(t, "alice", q.User.Username)
}

func TestCreateQuestionTooManyTagsRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	_, err := svc.CreateQuestion(user.ID, QuestionInput{
		Title:       "t",
		Description: "d",
		CategoryID:  uintPtr(cat.ID),
		Tags:        "a,b,c,d,e,f",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	var count int64
	require.NoError(t, db.Model(&models.Question{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateQuestionOwnershipAndPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cat := seedCategory(t, db, "general")
	q, err := svc.CreateQuestion(alice.ID, QuestionInput{Title: "t", Description: "d", CategoryID: uintPtr(cat.ID), Tags: "go"})
	require.NoError(t, err)

	_, err = svc.UpdateQuestion(bob.ID, q.ID, QuestionUpdate{Title: strPtr("stolen")})
	var ferr *AuthorizationError
	require.ErrorAs(t, err, &ferr)

	updated, err := svc.UpdateQuestion(alice.ID, q.ID, QuestionUpdate{Title: strPtr("new title")})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "d", updated.Description)
	require.Len(t, updated.Tags, 1)

	updated, err = svc.UpdateQuestion(alice.ID, q.ID, QuestionUpdate{Tags: strPtr("gin,gorm")})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 2)
	assert.Equal(t, "gin", updated.Tags[0].Name)
}

func TestPublishDraftRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	draft, err := svc.CreateQuestion(user.ID, QuestionInput{Title: "t", Description: "d", Draft: true})
	require.NoError(t, err)

	_, err = svc.UpdateQuestion(user.ID, draft.ID, QuestionUpdate{Draft: boolPtr(false)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	published, err := svc.UpdateQuestion(user.ID, draft.ID, QuestionUpdate{Draft: boolPtr(false), CategoryID: uintPtr(cat.ID)})
	require.NoError(t, err)
	assert.False(t, published.IsDraft)
}

func TestDraftVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	draft, err := svc.CreateQuestion(alice.ID, QuestionInput{Title: "secret", Description: "d", Draft: true})
	require.NoError(t, err)

	_, err = svc.GetQuestion(draft.ID, bob.ID)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)

	_, err = svc.GetQuestion(draft.ID, 0)
	require.ErrorAs(t, err, &nfe)

	mine, err := svc.GetQuestion(draft.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", mine.Title)

	drafts, total, err := svc.ListDrafts(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, drafts, 1)
}

func TestDeleteQuestionSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	answers := NewAnswerService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cat := seedCategory(t, db, "general")

	q, err := svc.CreateQuestion(alice.ID, QuestionInput{Title: "t", Description: "d", CategoryID: uintPtr(cat.ID)})
	require.NoError(t, err)
	a, err := answers.CreateAnswer(bob.ID, q.ID, "an answer")
	require.NoError(t, err)

	err = svc.DeleteQuestion(bob.ID, q.ID)
	var ferr *AuthorizationError
	require.ErrorAs(t, err, &ferr)

	require.NoError(t, svc.DeleteQuestion(alice.ID, q.ID))

	_, err = svc.GetQuestion(q.ID, alice.ID)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)

	// Rows survive as soft-deleted, including the answers.
	var rows int64
	require.NoError(t, db.Unscoped().Model(&models.Question{}).Where("id = ? AND deleted_at IS NOT NULL", q.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
	require.NoError(t, db.Unscoped().Model(&models.Answer{}).Where("id = ? AND deleted_at IS NOT NULL", a.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	list, total, err := svc.ListQuestions(QuestionFilter{}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}

func TestGetQuestionHydratesAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	best := NewBestAnswerService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	cat := seedCategory(t, db, "general")

	q, err := svc.CreateQuestion(alice.ID, QuestionInput{Title: "t", Description: "d", CategoryID: uintPtr(cat.ID)})
	require.NoError(t, err)
	a1 := seedAnswer(t, db, q.ID, bob.ID, "first")
	a2 := seedAnswer(t, db, q.ID, carol.ID, "second")
	seedVote(t, db, a2.ID, alice.ID)
	seedVote(t, db, a2.ID, bob.ID)
	require.NoError(t, best.Set(alice.ID, q.ID, a2.ID))

	got, err := svc.GetQuestion(q.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BestAnswer)
	assert.Equal(t, a2.ID, got.BestAnswer.ID)
	assert.EqualValues(t, 2, got.BestAnswer.VoteCount)
	assert.True(t, got.BestAnswer.Voted)

	// The best answer is pulled out of the regular list.
	require.Len(t, got.Answers, 1)
	assert.Equal(t, a1.ID, got.Answers[0].ID)
	assert.Equal(t, "bob", got.Answers[0].User.Username)
	assert.EqualValues(t, 0, got.Answers[0].VoteCount)
}

func TestListQuestionsNewestAndPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		q := models.Question{
			UserID:      user.ID,
			Title:       []string{"one", "two", "three", "four", "five"}[i],
			Description: "d",
			CategoryID:  uintPtr(cat.ID),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&q).Error)
	}

	page1, total, err := svc.ListQuestions(QuestionFilter{}, SortNewest, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "five", page1[0].Title)
	assert.Equal(t, "four", page1[1].Title)

	page3, _, err := svc.ListQuestions(QuestionFilter{}, SortNewest, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "one", page3[0].Title)
}

func TestListQuestionsPopularOrdersByVotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	cat := seedCategory(t, db, "general")

	quiet := seedQuestion(t, db, alice.ID, "quiet", uintPtr(cat.ID))
	busy := seedQuestion(t, db, alice.ID, "busy", uintPtr(cat.ID))
	mid := seedQuestion(t, db, alice.ID, "mid", uintPtr(cat.ID))

	busyA1 := seedAnswer(t, db, busy.ID, bob.ID, "a")
	busyA2 := seedAnswer(t, db, busy.ID, carol.ID, "b")
	seedVote(t, db, busyA1.ID, alice.ID)
	seedVote(t, db, busyA1.ID, carol.ID)
	seedVote(t, db, busyA2.ID, alice.ID)

	midA := seedAnswer(t, db, mid.ID, bob.ID, "c")
	seedVote(t, db, midA.ID, alice.ID)

	list, total, err := svc.ListQuestions(QuestionFilter{}, SortPopular, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	assert.Equal(t, busy.ID, list[0].ID)
	assert.Equal(t, mid.ID, list[1].ID)
	assert.Equal(t, quiet.ID, list[2].ID)
}

func TestListQuestionsResolvedFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	best := NewBestAnswerService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cat := seedCategory(t, db, "general")

	open := seedQuestion(t, db, alice.ID, "open", uintPtr(cat.ID))
	solved := seedQuestion(t, db, alice.ID, "solved", uintPtr(cat.ID))
	a := seedAnswer(t, db, solved.ID, bob.ID, "fix")
	require.NoError(t, best.Set(alice.ID, solved.ID, a.ID))

	list, _, err := svc.ListQuestions(QuestionFilter{}, SortResolved, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, solved.ID, list[0].ID)
	assert.Equal(t, open.ID, list[1].ID)
}
