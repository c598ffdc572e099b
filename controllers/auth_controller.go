package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/config"
	"github.com/tmbbs/tmbbs/models"
	"github.com/tmbbs/tmbbs/services"
	"github.com/tmbbs/tmbbs/utils"
)

const tokenTTL = 72 * time.Hour

// maxAvatarBytes caps avatar uploads at 2 MiB.
const maxAvatarBytes = 2 << 20

// AuthController handles account endpoints: local credentials, GitHub OAuth,
// profile management and activity pages.
type AuthController struct {
	db       *gorm.DB
	store    *utils.ObjectStore
	activity *services.ActivityService
}

// NewAuthController creates a new AuthController instance. The object store
// may be nil when avatar storage is not configured; uploads then fail cleanly.
func NewAuthController(db *gorm.DB, store *utils.ObjectStore) *AuthController {
	return &AuthController{db: db, store: store, activity: services.NewActivityService(db)}
}

// Register creates a local account and signs the user in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !validUsername(username) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "username must be 3-32 letters, digits, - or _")
		return
	}
	if !validPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40012, "password must be at least 8 characters")
		return
	}

	var existing int64
	if err := a.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, req.Email).
		Count(&existing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check user")
		return
	}
	if existing > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40013, "username or email already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleMember,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, 40013, "username or email already taken")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login verifies local credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's own record.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// UpdateProfile lets a user change their own username and email.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	changes := map[string]interface{}{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if !validUsername(username) {
			utils.Error(ctx, http.StatusBadRequest, 40011, "username must be 3-32 letters, digits, - or _")
			return
		}
		changes["username"] = username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			utils.Error(ctx, http.StatusBadRequest, 40014, "invalid email")
			return
		}
		changes["email"] = email
	}
	if len(changes) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "nothing to update")
		return
	}

	if err := a.db.Model(&models.User{}).Where("id = ?", userID).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, 40013, "username or email already taken")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to update profile")
		return
	}

	utils.InvalidateByPrefix("cache:user:public:" + strconv.Itoa(int(userID)))

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to load profile")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// ChangePassword verifies the current password before setting a new one.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}
	if !validPassword(req.NewPassword) {
		utils.Error(ctx, http.StatusBadRequest, 40012, "password must be at least 8 characters")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		utils.Error(ctx, http.StatusForbidden, 40311, "current password does not match")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}
	if err := a.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to update password")
		return
	}
	utils.Success(ctx, gin.H{"message": "password updated"})
}

// UploadAvatar stores the uploaded image in the avatar bucket and records its
// public URL on the profile.
func (a *AuthController) UploadAvatar(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if a.store == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "avatar storage not configured")
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "avatar file missing")
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		utils.Error(ctx, http.StatusBadRequest, 40017, "avatar exceeds 2MB limit")
		return
	}

	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40018, "unsupported image type")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to read upload")
		return
	}
	defer f.Close()

	objectName := fmt.Sprintf("%d/%s%s", userID, uuid.NewString(), ext)
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 30*time.Second)
	defer cancel()

	url, err := a.store.Upload(reqCtx, objectName, f, fileHeader.Size, contentType)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50210, "failed to store avatar")
		return
	}

	if err := a.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", url).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to update profile")
		return
	}
	utils.InvalidateByPrefix("cache:user:public:" + strconv.Itoa(int(userID)))
	utils.Success(ctx, gin.H{"avatar_url": url})
}

// GetUserPublic returns the public view of any user, cached for an hour.
func (a *AuthController) GetUserPublic(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	idStr := strconv.Itoa(int(id))

	cacheKey := "cache:user:public:" + idStr
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"user": publicUser(user)}}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	ctx.JSON(http.StatusOK, wrapper)
}

// GetUserActivity aggregates a user's recent questions, answers and votes.
// Drafts only show up when the profile owner asks for their own page.
func (a *AuthController) GetUserActivity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	includeDrafts := viewerID(ctx) == id
	activity, err := a.activity.ForUser(id, includeDrafts)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"activity": activity})
}

// OAuthRedirect generates the GitHub authorization URL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	cfg, err := a.oauthConfig(ctx.Param("provider"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	utils.Success(ctx, gin.H{"authorization_url": url, "state": state})
}

// OAuthCallback exchanges the authorization code for a user identity and issues a JWT.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40005, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid or expired state")
		return
	}

	cfg, err := a.oauthConfig(ctx.Param("provider"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}

	token, err := cfg.Exchange(ctx.Request.Context(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "failed to exchange code")
		return
	}

	info, err := fetchGitHubUser(token)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50005, "failed to fetch provider profile")
		return
	}

	user, err := a.findOrCreateOAuthUser("github", info)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to persist user")
		return
	}

	jwtToken, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": jwtToken, "user": user})
}

func (a *AuthController) oauthConfig(provider string) (*oauth2.Config, error) {
	if provider != "github" {
		return nil, errors.New("unsupported oauth provider")
	}
	cfg := config.Get()
	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		return nil, errors.New("github oauth not configured")
	}
	return &oauth2.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		Endpoint:     github.Endpoint,
		RedirectURL:  strings.TrimRight(cfg.OAuthRedirectBase, "/") + "/api/v1/auth/oauth/github/callback",
		Scopes:       []string{"read:user", "user:email"},
	}, nil
}

type oauthUser struct {
	ID        string
	Username  string
	Email     string
	AvatarURL string
}

func (a *AuthController) findOrCreateOAuthUser(provider string, data *oauthUser) (*models.User, error) {
	var user models.User
	err := a.db.Where("provider = ? AND provider_id = ?", provider, data.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The provider may hide the address; synthesize a stable one so the
	// unique email index never collides on the empty string.
	if data.Email == "" {
		data.Email = fmt.Sprintf("%s.%s@users.noreply.local", provider, data.ID)
	}

	user = models.User{
		Username:   a.ensureUniqueUsername(data.Username, provider, data.ID),
		Email:      data.Email,
		Role:       models.RoleMember,
		AvatarURL:  data.AvatarURL,
		Provider:   provider,
		ProviderID: data.ID,
	}
	if err := a.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ensureUniqueUsername appends a provider-derived suffix until the name is free.
func (a *AuthController) ensureUniqueUsername(base, provider, id string) string {
	candidate := sanitizeUsername(base)
	if candidate == "" {
		candidate = provider + "_" + id
	}
	for i := 0; i < 5; i++ {
		var count int64
		if err := a.db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%s", candidate, id)
	}
	return fmt.Sprintf("%s_%s", provider, uuid.NewString()[:8])
}

func fetchGitHubUser(token *oauth2.Token) (*oauthUser, error) {
	client := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(token))
	client.Timeout = 10 * time.Second

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	email := payload.Email
	if email == "" {
		email, _ = fetchGitHubEmail(client)
	}

	return &oauthUser{
		ID:        strconv.FormatInt(payload.ID, 10),
		Username:  payload.Login,
		Email:     email,
		AvatarURL: payload.AvatarURL,
	}, nil
}

func fetchGitHubEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github emails endpoint returned %d", resp.StatusCode)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

func sanitizeUsername(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 32 {
		s = s[:32]
	}
	return s
}

func validUsername(s string) bool {
	if len(s) < 3 || len(s) > 32 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func validPassword(s string) bool {
	return len(s) >= 8 && len(s) <= 128
}

// publicUser strips everything a stranger should not see.
func publicUser(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.DisplayName(),
		"avatar_url": user.AvatarURL,
		"created_at": user.CreatedAt,
	}
}
