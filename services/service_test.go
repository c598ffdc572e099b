package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tmbbs/tmbbs/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
// MaxOpenConns(1) keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.QuestionTag{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.PageView{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Role: models.RoleMember}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func seedQuestion(t *testing.T, db *gorm.DB, userID uint, title string, categoryID *uint) models.Question {
	t.Helper()
	q := models.Question{
		UserID:      userID,
		Title:       title,
		Description: "description of " + title,
		CategoryID:  categoryID,
	}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func seedAnswer(t *testing.T, db *gorm.DB, questionID, userID uint, content string) models.Answer {
	t.Helper()
	a := models.Answer{QuestionID: questionID, UserID: userID, Content: content}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func seedVote(t *testing.T, db *gorm.DB, answerID, userID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Vote{AnswerID: answerID, UserID: userID, Type: models.VoteUpvote}).Error)
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
