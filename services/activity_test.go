package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmbbs/tmbbs/models"
)

func TestUserActivityAggregation(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db)
	best := NewBestAnswerService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cat := seedCategory(t, db, "general")

	q1 := seedQuestion(t, db, alice.ID, "alice one", uintPtr(cat.ID))
	seedQuestion(t, db, alice.ID, "alice two", uintPtr(cat.ID))
	bobQ := seedQuestion(t, db, bob.ID, "bob question", uintPtr(cat.ID))

	answer := seedAnswer(t, db, bobQ.ID, alice.ID, "alice helps bob")
	bobAnswer := seedAnswer(t, db, q1.ID, bob.ID, "bob helps alice")
	seedVote(t, db, bobAnswer.ID, alice.ID)
	require.NoError(t, best.Set(bob.ID, bobQ.ID, answer.ID))

	activity, err := svc.ForUser(alice.ID, false)
	require.NoError(t, err)

	require.Len(t, activity.Questions, 2)
	assert.Equal(t, "alice two", activity.Questions[0].Title)

	require.Len(t, activity.Answers, 1)
	assert.Equal(t, answer.ID, activity.Answers[0].ID)
	require.NotNil(t, activity.Answers[0].Question)
	assert.Equal(t, "bob question", activity.Answers[0].Question.Title)

	require.Len(t, activity.VotedAnswers, 1)
	assert.Equal(t, bobAnswer.ID, activity.VotedAnswers[0].ID)
	require.NotNil(t, activity.VotedAnswers[0].Question)
	assert.Equal(t, "alice one", activity.VotedAnswers[0].Question.Title)

	assert.EqualValues(t, 2, activity.Stats.QuestionCount)
	assert.EqualValues(t, 1, activity.Stats.AnswerCount)
	assert.EqualValues(t, 1, activity.Stats.VoteCount)
	assert.EqualValues(t, 1, activity.Stats.BestAnswerCount)
}

func TestUserActivityDraftVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db)
	alice := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	seedQuestion(t, db, alice.ID, "published", uintPtr(cat.ID))
	draft := models.Question{UserID: alice.ID, Title: "draft", Description: "d", IsDraft: true}
	require.NoError(t, db.Create(&draft).Error)

	public, err := svc.ForUser(alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, public.Questions, 1)
	assert.EqualValues(t, 1, public.Stats.QuestionCount)

	own, err := svc.ForUser(alice.ID, true)
	require.NoError(t, err)
	assert.Len(t, own.Questions, 2)
	assert.EqualValues(t, 2, own.Stats.QuestionCount)
}

func TestUserActivityUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db)

	_, err := svc.ForUser(999, false)
	var nfe *NotFoundError
	assert.ErrorAs(t, err, &nfe)
}
