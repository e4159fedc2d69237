package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/azerothdev/azeroth-api/cache"
	"github.com/azerothdev/azeroth-api/config"
	mw "github.com/azerothdev/azeroth-api/middleware"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles authentication REST endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cache cache.Cache
	sec   config.SecurityConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, c cache.Cache, sec config.SecurityConfig) *AuthHandler {
	return &AuthHandler{db: db, cache: c, sec: sec}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Email    string `json:"email"    binding:"required,email"`
}

// Register handles POST /api/auth/register. New accounts always get the USER
// role; admins are promoted out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	user := model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Role:         model.RoleUser,
		Enabled:      true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, http.StatusConflict, CodeUsernameTaken, "username or email already taken")
		} else {
			fail(c, http.StatusInternalServerError, CodeInternal, "registration failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	var user model.User
	err := h.db.Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
		return
	} else if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
		return
	}
	if !user.Enabled {
		fail(c, http.StatusForbidden, CodeForbidden, "account disabled")
		return
	}

	token, err := mw.GenerateToken(user.ID, user.Role, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "token error")
		return
	}

	// Store session as a simple KV entry so Exists() works uniformly.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Set(ctx, "session:"+token, strconv.FormatInt(user.ID, 10), h.sec.JWTTTLH)

	// Update last login (best-effort).
	now := time.Now()
	_ = h.db.Model(&user).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": user.ID,
		"role":    user.Role,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		fail(c, http.StatusBadRequest, CodeValidation, "missing token")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+tokenStr)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh handles POST /api/auth/refresh. The old session is invalidated and
// a fresh token issued with the caller's current role.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := mw.GetUserID(c)
	if userID == 0 {
		fail(c, http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
		return
	}

	header := c.GetHeader("Authorization")
	oldToken := strings.TrimPrefix(header, "Bearer ")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+oldToken)

	newToken, err := mw.GenerateToken(userID, mw.GetRole(c), h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "token error")
		return
	}
	_ = h.cache.Set(ctx, "session:"+newToken, strconv.FormatInt(userID, 10), h.sec.JWTTTLH)

	c.JSON(http.StatusOK, gin.H{"token": newToken})
}
