package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmbbs/tmbbs/models"
)

func TestCreateAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	cat := seedCategory(t, db, "general")
	q := seedQuestion(t, db, asker.ID, "q", uintPtr(cat.ID))

	a, err := svc.CreateAnswer(helper.ID, q.ID, "try this")
	require.NoError(t, err)
	assert.Equal(t, q.ID, a.QuestionID)
	assert.Equal(t, "helper", a.User.Username)

	// The question's own author may answer too.
	_, err = svc.CreateAnswer(asker.ID, q.ID, "self reply")
	require.NoError(t, err)
}

func TestCreateAnswerValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker.ID, "q", nil)

	_, err := svc.CreateAnswer(0, q.ID, "x")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	var verr *ValidationError
	_, err = svc.CreateAnswer(helper.ID, q.ID, "  ")
	require.ErrorAs(t, err, &verr)

	var nfe *NotFoundError
	_, err = svc.CreateAnswer(helper.ID, 999, "x")
	require.ErrorAs(t, err, &nfe)
}

func TestCreateAnswerOnDraft(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	draft := models.Question{UserID: asker.ID, Title: "draft", Description: "d", IsDraft: true}
	require.NoError(t, db.Create(&draft).Error)

	// Outsiders cannot even see the draft.
	var nfe *NotFoundError
	_, err := svc.CreateAnswer(helper.ID, draft.ID, "x")
	require.ErrorAs(t, err, &nfe)

	// The owner sees it but still cannot answer an unpublished question.
	var verr *ValidationError
	_, err = svc.CreateAnswer(asker.ID, draft.ID, "x")
	require.ErrorAs(t, err, &verr)
}

func TestUpdateAnswerOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker.ID, "q", nil)
	a := seedAnswer(t, db, q.ID, helper.ID, "v1")

	var ferr *AuthorizationError
	_, err := svc.UpdateAnswer(asker.ID, a.ID, "hijacked")
	require.ErrorAs(t, err, &ferr)

	updated, err := svc.UpdateAnswer(helper.ID, a.ID, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
}

func TestDeleteAnswerSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker.ID, "q", nil)
	a := seedAnswer(t, db, q.ID, helper.ID, "bye")

	var ferr *AuthorizationError
	err := svc.DeleteAnswer(asker.ID, a.ID)
	require.ErrorAs(t, err, &ferr)

	require.NoError(t, svc.DeleteAnswer(helper.ID, a.ID))

	var visible int64
	require.NoError(t, db.Model(&models.Answer{}).Where("id = ?", a.ID).Count(&visible).Error)
	assert.EqualValues(t, 0, visible)

	var kept int64
	require.NoError(t, db.Unscoped().Model(&models.Answer{}).Where("id = ?", a.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)
}
