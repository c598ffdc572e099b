package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmbbs/tmbbs/models"
	"github.com/tmbbs/tmbbs/utils"
)

// AdminRequired gates admin-only routes. Non-admins get a plain 404 rather
// than a 403 so the admin surface does not advertise its existence.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString(ContextRoleKey)
		if role != models.RoleAdmin {
			utils.Error(ctx, http.StatusNotFound, 40410, "not found")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
