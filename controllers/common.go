package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tmbbs/tmbbs/middleware"
	"github.com/tmbbs/tmbbs/services"
	"github.com/tmbbs/tmbbs/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// viewerID returns the caller's user ID, or zero for anonymous requests.
func viewerID(ctx *gin.Context) uint {
	id, _ := getUserID(ctx)
	return id
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps the service error taxonomy onto the uniform JSON
// envelope and HTTP status codes.
func respondServiceError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		utils.Error(ctx, http.StatusBadRequest, 40010, verr.Msg)
		return
	}
	var ferr *services.AuthorizationError
	if errors.As(err, &ferr) {
		utils.Error(ctx, http.StatusForbidden, 40310, ferr.Msg)
		return
	}
	var nfe *services.NotFoundError
	if errors.As(err, &nfe) {
		utils.Error(ctx, http.StatusNotFound, 40410, nfe.Msg)
		return
	}
	if errors.Is(err, services.ErrAuthenticationRequired) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	utils.Error(ctx, http.StatusInternalServerError, 50010, "internal error")
}
