package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/services"
	"github.com/tmbbs/tmbbs/utils"
)

// QuestionController exposes question CRUD, listing/search and the
// best-answer endpoints.
type QuestionController struct {
	db      *gorm.DB
	content *services.ContentService
	best    *services.BestAnswerService
}

// NewQuestionController creates a new QuestionController instance.
func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{
		db:      db,
		content: services.NewContentService(db),
		best:    services.NewBestAnswerService(db),
	}
}

// ListQuestions returns a paginated listing, optionally filtered by keyword,
// category and tag, and sorted by newest, popular or resolved.
func (q *QuestionController) ListQuestions(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	sort := ctx.DefaultQuery("sort", services.SortNewest)
	switch sort {
	case services.SortNewest, services.SortPopular, services.SortResolved:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40019, "unknown sort order")
		return
	}

	keyword := strings.TrimSpace(ctx.Query("q"))
	if keyword == "" {
		keyword = strings.TrimSpace(ctx.Query("keyword"))
	}
	filter := services.QuestionFilter{
		Keyword: keyword,
		TagName: strings.TrimSpace(ctx.Query("tag")),
	}
	if raw := strings.TrimSpace(ctx.Query("category_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40001, "invalid category_id")
			return
		}
		cid := uint(id)
		filter.CategoryID = &cid
	}

	// Cache unfiltered anonymous listings; filters would explode the key space.
	cacheable := filter.Keyword == "" && filter.TagName == "" && filter.CategoryID == nil && viewerID(ctx) == 0
	cacheKey := fmt.Sprintf("cache:questions:list:sort=%s:page=%d:size=%d", sort, page, pageSize)
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	questions, total, err := q.content.ListQuestions(filter, sort, page, pageSize)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{
		"questions": questions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
	if cacheable {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	}
	utils.Success(ctx, payload)
}

// GetQuestion returns one question with answers, tags and vote state.
func (q *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	question, err := q.content.GetQuestion(id, viewerID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"question": question})
}

// CreateQuestion stores a new question or draft for the authenticated user.
func (q *QuestionController) CreateQuestion(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var in services.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}
	in.Title = utils.Sanitize(in.Title)
	in.Description = utils.Sanitize(in.Description)

	question, err := q.content.CreateQuestion(userID, in)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.InvalidateByPrefix("cache:tags:")
	utils.Success(ctx, gin.H{"question": question})
}

// UpdateQuestion applies a partial edit by the author.
func (q *QuestionController) UpdateQuestion(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var upd services.QuestionUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}
	if upd.Title != nil {
		clean := utils.Sanitize(*upd.Title)
		upd.Title = &clean
	}
	if upd.Description != nil {
		clean := utils.Sanitize(*upd.Description)
		upd.Description = &clean
	}

	question, err := q.content.UpdateQuestion(userID, id, upd)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.InvalidateByPrefix("cache:tags:")
	utils.Success(ctx, gin.H{"question": question})
}

// DeleteQuestion soft-deletes the author's question and its answers.
func (q *QuestionController) DeleteQuestion(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := q.content.DeleteQuestion(userID, id); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.InvalidateByPrefix("cache:tags:")
	utils.Success(ctx, gin.H{"message": "question deleted"})
}

// ListDrafts returns the caller's own drafts.
func (q *QuestionController) ListDrafts(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	drafts, total, err := q.content.ListDrafts(userID, page, pageSize)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"questions": drafts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// SetBestAnswer marks an answer as the question's best answer.
func (q *QuestionController) SetBestAnswer(ctx *gin.Context) {
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
		AnswerID uint `json:"answer_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	if err := q.best.Set(userID, questionID, req.AnswerID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.Success(ctx, gin.H{"message": "best answer set"})
}

// ClearBestAnswer removes the best-answer mark.
func (q *QuestionController) ClearBestAnswer(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	questionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := q.best.Clear(userID, questionID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.Success(ctx, gin.H{"message": "best answer cleared"})
}
