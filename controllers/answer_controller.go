package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/services"
	"github.com/tmbbs/tmbbs/utils"
)

// AnswerController exposes answer CRUD.
type AnswerController struct {
	db      *gorm.DB
	answers *services.AnswerService
}

// NewAnswerController creates a new AnswerController instance.
func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{db: db, answers: services.NewAnswerService(db)}
}

// CreateAnswer posts an answer to a question.
func (a *AnswerController) CreateAnswer(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	questionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	answer, err := a.answers.CreateAnswer(userID, questionID, utils.Sanitize(req.Content))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.Success(ctx, gin.H{"answer": answer})
}

// UpdateAnswer edits the author's own answer.
func (a *AnswerController) UpdateAnswer(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	answerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	answer, err := a.answers.UpdateAnswer(userID, answerID, utils.Sanitize(req.Content))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"answer": answer})
}

// DeleteAnswer soft-deletes the author's own answer.
func (a *AnswerController) DeleteAnswer(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	answerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := a.answers.DeleteAnswer(userID, answerID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.Success(ctx, gin.H{"message": "answer deleted"})
}
