package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmbbs/tmbbs/models"
)

func titlesOf(questions []models.Question) []string {
	titles := make([]string, 0, len(questions))
	for _, q := range questions {
		titles = append(titles, q.Title)
	}
	return titles
}

func TestSearchKeywordMatchesAnyTerm(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	mk := func(title, desc string) {
		q := models.Question{UserID: user.ID, Title: title, Description: desc, CategoryID: uintPtr(cat.ID)}
		require.NoError(t, db.Create(&q).Error)
	}
	mk("Deploying with Docker", "container basics")
	mk("Kubernetes intro", "pods and services")
	mk("Unrelated", "nothing here")

	// OR across terms: either word is enough.
	list, total, err := svc.ListQuestions(QuestionFilter{Keyword: "docker kubernetes"}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []string{"Deploying with Docker", "Kubernetes intro"}, titlesOf(list))

	// Case-insensitive, and the description counts too.
	list, _, err = svc.ListQuestions(QuestionFilter{Keyword: "PODS"}, SortNewest, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kubernetes intro", list[0].Title)

	// No hit at all.
	list, total, err = svc.ListQuestions(QuestionFilter{Keyword: "erlang"}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}

func TestSearchByCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")
	catA := seedCategory(t, db, "backend")
	catB := seedCategory(t, db, "frontend")

	seedQuestion(t, db, user.ID, "api design", uintPtr(catA.ID))
	seedQuestion(t, db, user.ID, "css grid", uintPtr(catB.ID))
	seedQuestion(t, db, user.ID, "uncategorized draftless", nil)

	list, total, err := svc.ListQuestions(QuestionFilter{CategoryID: uintPtr(catA.ID)}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "api design", list[0].Title)
}

func TestSearchByTag(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	tags := NewTagService(db)
	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	tagged := seedQuestion(t, db, user.ID, "tagged", uintPtr(cat.ID))
	seedQuestion(t, db, user.ID, "untagged", uintPtr(cat.ID))
	require.NoError(t, tags.AttachTags(db, tagged.ID, []string{"go"}))

	list, total, err := svc.ListQuestions(QuestionFilter{TagName: "go"}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "tagged", list[0].Title)

	// Tag names compare case-sensitive; an unknown tag matches nothing.
	list, total, err = svc.ListQuestions(QuestionFilter{TagName: "Go"}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}

func TestSearchFiltersCombineWithAnd(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	tags := NewTagService(db)
	user := seedUser(t, db, "alice")
	catA := seedCategory(t, db, "backend")
	catB := seedCategory(t, db, "frontend")

	match := seedQuestion(t, db, user.ID, "caching strategies", uintPtr(catA.ID))
	require.NoError(t, tags.AttachTags(db, match.ID, []string{"redis"}))

	wrongCat := seedQuestion(t, db, user.ID, "caching in the browser", uintPtr(catB.ID))
	require.NoError(t, tags.AttachTags(db, wrongCat.ID, []string{"redis"}))

	seedQuestion(t, db, user.ID, "caching plain", uintPtr(catA.ID))

	list, total, err := svc.ListQuestions(
		QuestionFilter{Keyword: "caching", CategoryID: uintPtr(catA.ID), TagName: "redis"},
		SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, match.ID, list[0].ID)
}

func TestSearchExcludesDrafts(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	user := seedUser(t, db, "alice")

	draft := models.Question{UserID: user.ID, Title: "docker draft", Description: "d", IsDraft: true}
	require.NoError(t, db.Create(&draft).Error)

	list, total, err := svc.ListQuestions(QuestionFilter{Keyword: "docker"}, SortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}
