package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/config"
	"github.com/tmbbs/tmbbs/controllers"
	"github.com/tmbbs/tmbbs/middleware"
	"github.com/tmbbs/tmbbs/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store *utils.ObjectStore) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, store)
	questionController := controllers.NewQuestionController(db)
	answerController := controllers.NewAnswerController(db)
	voteController := controllers.NewVoteController(db)
	categoryController := controllers.NewCategoryController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)
	authGroup.PATCH("/password", middleware.AuthRequired(), authController.ChangePassword)
	authGroup.POST("/avatar", middleware.AuthRequired(), authController.UploadAvatar)

	// Public reads carry optional auth so vote state and own-draft visibility
	// can be personalized.
	public := api.Group("")
	public.Use(middleware.OptionalAuth())
	public.GET("/questions", questionController.ListQuestions)
	public.GET("/questions/:id", questionController.GetQuestion)
	public.GET("/answers/:id/vote", voteController.GetVoteState)
	public.GET("/categories", categoryController.ListCategories)
	public.GET("/tags/top", statsController.GetTopTags)
	public.GET("/stats", statsController.GetStats)
	public.GET("/users/:id", authController.GetUserPublic)
	public.GET("/users/:id/activity", authController.GetUserActivity)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	// Static /users/me wins over the public /users/:id param route, so "me"
	// reaches the auth gate instead of the numeric id parser.
	protected.GET("/users/me", authController.Me)
	protected.POST("/questions", questionController.CreateQuestion)
	protected.PATCH("/questions/:id", questionController.UpdateQuestion)
	protected.DELETE("/questions/:id", questionController.DeleteQuestion)
	protected.GET("/users/me/drafts", questionController.ListDrafts)
	protected.POST("/questions/:id/best-answer", questionController.SetBestAnswer)
	protected.DELETE("/questions/:id/best-answer", questionController.ClearBestAnswer)
	protected.POST("/questions/:id/answers", answerController.CreateAnswer)
	protected.PUT("/answers/:id", answerController.UpdateAnswer)
	protected.DELETE("/answers/:id", answerController.DeleteAnswer)
	protected.POST("/answers/:id/vote", voteController.ToggleVote)

	// Admin routes hide behind a 404 for everyone without the admin role.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.POST("/categories", categoryController.CreateCategory)
	admin.PUT("/categories/:id", categoryController.UpdateCategory)
	admin.DELETE("/categories/:id", categoryController.DeleteCategory)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
