package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
	"github.com/tmbbs/tmbbs/utils"
)

const categoryCacheKey = "cache:categories:list"

// CategoryController serves the public category list and the admin CRUD.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// ListCategories returns every category, cached since the set changes rarely.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(categoryCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var categories []models.Category
	if err := c.db.Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load categories")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"categories": categories}}
	utils.CacheSetJSON(categoryCacheKey, wrapper, time.Hour)
	ctx.JSON(http.StatusOK, wrapper)
}

// CreateCategory adds a category. Admin only.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" || len(name) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40023, "category name must be 1-64 characters")
		return
	}

	category := models.Category{Name: name}
	if err := c.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, 40024, "category already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create category")
		return
	}

	utils.InvalidateByPrefix(categoryCacheKey)
	utils.Success(ctx, gin.H{"category": category})
}

// UpdateCategory renames a category. Admin only.
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" || len(name) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40023, "category name must be 1-64 characters")
		return
	}

	var category models.Category
	if err := c.db.First(&category, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "category not found")
		return
	}
	if err := c.db.Model(&category).Update("name", name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, 40024, "category already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to update category")
		return
	}

	utils.InvalidateByPrefix(categoryCacheKey)
	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory removes a category. Questions referencing it fall back to
// uncategorized instead of disappearing.
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Question{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to delete category")
		return
	}

	utils.InvalidateByPrefix(categoryCacheKey)
	utils.InvalidateByPrefix("cache:questions:list:")
	utils.Success(ctx, gin.H{"message": "category deleted"})
}
