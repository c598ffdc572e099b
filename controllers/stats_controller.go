package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
	"github.com/tmbbs/tmbbs/services"
	"github.com/tmbbs/tmbbs/utils"
)

// StatsController serves board-wide counters and the top-tags widget.
type StatsController struct {
	db   *gorm.DB
	tags *services.TagService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db, tags: services.NewTagService(db)}
}

// GetStats returns headline numbers for the board plus today's page views.
func (s *StatsController) GetStats(ctx *gin.Context) {
	cacheKey := "cache:stats:board"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var questions, answers, users, resolved int64
	if err := s.db.Model(&models.Question{}).Where("is_draft = ?", false).Count(&questions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Answer{}).Count(&answers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.User{}).Count(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Question{}).
		Where("is_draft = ? AND best_answer_id IS NOT NULL", false).
		Count(&resolved).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load stats")
		return
	}

	now := time.Now().In(time.Local)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayViews int64
	s.db.Model(&models.PageView{}).
		Where("date = ?", localMidnight).
		Select("COALESCE(SUM(count), 0)").
		Scan(&todayViews)

	payload := gin.H{
		"questions":        questions,
		"answers":          answers,
		"users":            users,
		"resolved":         resolved,
		"page_views_today": todayViews,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	ctx.JSON(http.StatusOK, wrapper)
}

// GetTopTags returns the most used tags across published questions.
func (s *StatsController) GetTopTags(ctx *gin.Context) {
	limit := 10
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	cacheKey := "cache:tags:top:" + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	top, err := s.tags.TopTags(limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load tags")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"tags": top}}
	utils.CacheSetJSON(cacheKey, wrapper, 10*time.Minute)
	ctx.JSON(http.StatusOK, wrapper)
}
